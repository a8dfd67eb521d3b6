package imageio

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/cwbudde/algo-corepoint/raster"
)

// ErrEmptyImage is returned when a file decodes to an image without pixels.
var ErrEmptyImage = errors.New("imageio: decoded image is empty")

// Decode reads an image in any format imaging understands (PNG, JPEG, GIF,
// BMP, TIFF) and converts it to grayscale.
func Decode(r io.Reader) (*image.Gray, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return ToGray(img)
}

// ToGray converts img to a tight *image.Gray with bounds at the origin.
// Gray inputs are copied verbatim; everything else goes through
// imaging.Grayscale luma weights.
func ToGray(img image.Image) (*image.Gray, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	if g, ok := img.(*image.Gray); ok {
		return raster.Clone(g), nil
	}

	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	// Grayscale yields NRGBA with R == G == B.
	nrgba := imaging.Grayscale(img)
	for y := 0; y < b.Dy(); y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		dst := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
		for x := range dst {
			dst[x] = row[4*x]
		}
	}
	return out, nil
}
