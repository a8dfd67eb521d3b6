package testutil

import (
	"image"
	"math"
	"math/rand"
)

// Flat returns a w×h image filled with v.
func Flat(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// Noise returns uniformly distributed pixels from a fixed seed.
func Noise(w, h int, seed int64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	rng := rand.New(rand.NewSource(seed))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

// Stripes returns vertical ridges 128+100*sin(2πx/period). Every row is
// identical, so vertical gradients vanish and the orientation is uniform.
func Stripes(w, h int, period float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	row := make([]uint8, w)
	for x := range row {
		row[x] = ridgeLevel(float64(x), period)
	}
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:], row)
	}
	return img
}

// Whorl returns circular ridges of the given period around (cx, cy) that open
// into vertical stripes away from the center. The ridge phase is
// 2π/period*(dx - a*ln r) with a = 1.25*period, which places a whorl at
// (cx, cy) and a saddle a to its right. Ridge contrast fades as a Gaussian of
// radius 5*period, so the area around the singularity has the strongest ridges
// once the image is equalized.
func Whorl(w, h int, period float64, cx, cy int) *image.Gray {
	a := 1.25 * period
	sigma := 5 * period
	omega := 2 * math.Pi / period

	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			r := math.Hypot(dx, dy)
			if r == 0 {
				img.Pix[y*img.Stride+x] = 128
				continue
			}
			amp := 100 * math.Exp(-r*r/(2*sigma*sigma))
			img.Pix[y*img.Stride+x] = uint8(math.Round(128 + amp*math.Cos(omega*(dx-a*math.Log(r)))))
		}
	}
	return img
}

func ridgeLevel(t, period float64) uint8 {
	return uint8(math.Round(128 + 100*math.Sin(2*math.Pi*t/period)))
}
