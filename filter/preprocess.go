package filter

import (
	"image"

	"github.com/cwbudde/algo-corepoint/raster"
)

// Preprocess smooths img with a ksize×ksize Gaussian, stretches the result to
// the full [0, 255] range and equalizes its histogram.
func Preprocess(img *image.Gray, ksize int, sigma float64) (*image.Gray, error) {
	blurred, err := GaussianBlur(img, ksize, sigma)
	if err != nil {
		return nil, err
	}
	return EqualizeHist(NormalizeMinMax(blurred)), nil
}

// GaussianBlur applies a separable Gaussian of size ksize.
func GaussianBlur(img *image.Gray, ksize int, sigma float64) (*image.Gray, error) {
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	k, err := GaussianKernel(ksize, sigma)
	if err != nil {
		return nil, err
	}
	src := raster.FromGray(img)
	return raster.ToGray(SepFilter2D(src, k, k)), nil
}

// NormalizeMinMax linearly maps the darkest pixel to 0 and the brightest to 255.
// A flat image maps to all zeros.
func NormalizeMinMax(img *image.Gray) *image.Gray {
	img = raster.Normalize(img)
	out := image.NewGray(img.Bounds())
	if len(img.Pix) == 0 {
		return out
	}

	lo, hi := img.Pix[0], img.Pix[0]
	for _, v := range img.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		return out
	}

	scale := 255 / float64(hi-lo)
	shift := -float64(lo) * scale
	for i, v := range img.Pix {
		out.Pix[i] = raster.SaturateUint8(float64(v)*scale + shift)
	}
	return out
}

// EqualizeHist spreads the intensity histogram over [0, 255].
//
// The lowest occupied level maps to 0 and the remaining levels follow the
// cumulative histogram scaled by 255/(total - count of that level). An image
// with a single level keeps that level.
func EqualizeHist(img *image.Gray) *image.Gray {
	img = raster.Normalize(img)
	out := image.NewGray(img.Bounds())
	total := len(img.Pix)
	if total == 0 {
		return out
	}

	var hist [256]int
	for _, v := range img.Pix {
		hist[v]++
	}

	first := 0
	for hist[first] == 0 {
		first++
	}

	var lut [256]uint8
	if hist[first] == total {
		for i := range lut {
			lut[i] = uint8(first)
		}
	} else {
		scale := 255 / float64(total-hist[first])
		sum := 0
		for i := first + 1; i < 256; i++ {
			sum += hist[i]
			lut[i] = raster.SaturateUint8(float64(sum) * scale)
		}
	}

	for i, v := range img.Pix {
		out.Pix[i] = lut[v]
	}
	return out
}

// Laplacian returns the 4-neighbor discrete Laplacian of img
// (kernel [0 1 0; 1 -4 1; 0 1 0]).
func Laplacian(img *image.Gray) raster.Field {
	src := raster.FromGray(raster.Normalize(img))
	w, h := src.W, src.H
	dst := raster.NewField(w, h)
	for y := 0; y < h; y++ {
		up := src.Row(raster.Reflect101(y-1, h))
		mid := src.Row(y)
		down := src.Row(raster.Reflect101(y+1, h))
		out := dst.Row(y)
		for x := 0; x < w; x++ {
			left := mid[raster.Reflect101(x-1, w)]
			right := mid[raster.Reflect101(x+1, w)]
			out[x] = up[x] + down[x] + left + right - 4*mid[x]
		}
	}
	return dst
}
