// Package raster holds the numeric image representations shared by the
// detection stages and the border and window helpers they sample with.
//
// Grayscale inputs stay *image.Gray. Derived quantities (gradients,
// orientation, quality) are dense float64 fields in row-major order.
package raster

import (
	"errors"
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrEmptyWindow is returned when a requested window has no pixels inside the image.
var ErrEmptyWindow = errors.New("raster: empty window")

// Field is a dense W×H grid of float64 values indexed as Data[y*W+x].
type Field struct {
	W, H int
	Data []float64
}

// NewField allocates a zeroed field.
func NewField(w, h int) Field {
	return Field{W: w, H: h, Data: make([]float64, w*h)}
}

func (f Field) At(x, y int) float64 { return f.Data[y*f.W+x] }

func (f Field) Set(x, y int, v float64) { f.Data[y*f.W+x] = v }

// Row returns the backing slice of row y.
func (f Field) Row(y int) []float64 { return f.Data[y*f.W : (y+1)*f.W] }

// In reports whether (x, y) lies inside the field.
func (f Field) In(x, y int) bool { return x >= 0 && y >= 0 && x < f.W && y < f.H }

// FromGray converts an 8-bit image into a field with the image origin moved to (0, 0).
func FromGray(img *image.Gray) Field {
	b := img.Bounds()
	f := NewField(b.Dx(), b.Dy())
	for y := 0; y < f.H; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+f.W]
		dst := f.Row(y)
		for x, v := range src {
			dst[x] = float64(v)
		}
	}
	return f
}

// ToGray rounds and saturates a field back to 8 bits.
func ToGray(f Field) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		row := f.Row(y)
		for x, v := range row {
			img.Pix[y*img.Stride+x] = SaturateUint8(v)
		}
	}
	return img
}

// SaturateUint8 rounds half away from zero and clamps into [0, 255].
func SaturateUint8(v float64) uint8 {
	r := math.Round(v)
	switch {
	case r <= 0 || math.IsNaN(r):
		return 0
	case r >= 255:
		return 255
	default:
		return uint8(r)
	}
}

// Normalize returns img with its origin at (0, 0) and a tight stride.
// Images already in that form are returned unchanged.
func Normalize(img *image.Gray) *image.Gray {
	b := img.Bounds()
	if b.Min == (image.Point{}) && img.Stride == b.Dx() {
		return img
	}
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return out
}

// Clone returns a deep copy of img with its origin at (0, 0).
func Clone(img *image.Gray) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return out
}

// Reflect101 maps an out-of-range index into [0, n) by mirroring without
// repeating the edge sample (gfedcb|abcdefgh|gfedcba).
func Reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WindowMeanStdDev returns the population mean and standard deviation of the
// pixels of img inside r. r is intersected with the image bounds first.
func WindowMeanStdDev(img *image.Gray, r image.Rectangle) (mean, std float64, err error) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return 0, 0, ErrEmptyWindow
	}
	vals := make([]float64, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		for _, v := range img.Pix[off : off+r.Dx()] {
			vals = append(vals, float64(v))
		}
	}
	mean, std = stat.PopMeanStdDev(vals, nil)
	return mean, std, nil
}

// MeanStdDev returns the population mean and standard deviation of f.
func MeanStdDev(f Field) (mean, std float64) {
	if len(f.Data) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(f.Data, nil)
}
