package singularity

import (
	"image"

	"github.com/cwbudde/algo-corepoint/raster"
)

const (
	// Margin is the minimum distance from every border for an accepted point.
	Margin = 50

	// contrastWindow is the side of the window used to rescore a point.
	contrastWindow = 21
)

// Validate rescores p against img and returns the refined confidence.
//
// Points closer than Margin to a border, or with non-positive confidence,
// score 0. If the contrast window does not fit, the confidence is halved.
// Otherwise it is scaled by the window's standard deviation over 255.
func Validate(img *image.Gray, p CorePoint) float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if !insideMargin(p, w, h) {
		return 0
	}

	x, y := int(p.X), int(p.Y)
	half := contrastWindow / 2
	if x-half < 0 || x+half >= w || y-half < 0 || y+half >= h {
		return p.Confidence * 0.5
	}

	r := image.Rect(x-half, y-half, x-half+contrastWindow, y-half+contrastWindow).Add(b.Min)
	_, std, err := raster.WindowMeanStdDev(img, r)
	if err != nil {
		return 0
	}
	return p.Confidence * std / 255
}

func insideMargin(p CorePoint, w, h int) bool {
	return p.X >= Margin && p.X < float64(w-Margin) &&
		p.Y >= Margin && p.Y < float64(h-Margin) &&
		p.Confidence > 0
}
