// Package patch cuts the fixed-size region of interest around a detected
// core point and characterizes the ridges it contains.
package patch

import (
	"image"

	"github.com/cwbudde/algo-corepoint/raster"
	"github.com/cwbudde/algo-corepoint/singularity"
)

const (
	// Size is the side length of every patch.
	Size = 101

	// HalfSize is the offset from the patch center to its first row and column.
	HalfSize = Size / 2
)

// Patch is a Size×Size grayscale excerpt of the source image.
type Patch struct {
	Pixels   [Size][Size]uint8
	Filename string
	Index    int // batch position, -1 when unbatched
}

// Extract samples the Size×Size neighborhood centered on p from img.
// Coordinates outside the image are clamped independently per axis, so the
// edge rows and columns repeat. img should be the unprocessed input.
func Extract(img *image.Gray, p singularity.CorePoint, filename string, index int) Patch {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cx, cy := int(p.X), int(p.Y)

	out := Patch{Filename: filename, Index: index}
	if w == 0 || h == 0 {
		return out
	}
	for y := 0; y < Size; y++ {
		sy := raster.Clamp(cy-HalfSize+y, 0, h-1)
		off := img.PixOffset(b.Min.X, b.Min.Y+sy)
		row := img.Pix[off : off+w]
		for x := 0; x < Size; x++ {
			out.Pixels[y][x] = row[raster.Clamp(cx-HalfSize+x, 0, w-1)]
		}
	}
	return out
}

// Gray returns the patch as a new image.
func (p *Patch) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, Size, Size))
	for y := range p.Pixels {
		copy(img.Pix[y*img.Stride:], p.Pixels[y][:])
	}
	return img
}

// Bounds is always a Size×Size rectangle at the origin.
func (p *Patch) Bounds() image.Rectangle {
	return image.Rect(0, 0, len(p.Pixels[0]), len(p.Pixels))
}
