// Package quality scores how usable a grayscale fingerprint image is from
// its global contrast and sharpness.
package quality

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-corepoint/filter"
	"github.com/cwbudde/algo-corepoint/raster"
)

// DefaultSharpnessScale normalizes the Laplacian standard deviation.
const DefaultSharpnessScale = 1000.0

// Components breaks a score into its terms.
type Components struct {
	Contrast  float64 // pixel std-dev / 255
	Sharpness float64 // Laplacian std-dev / scale
	Score     float64 // min(1, Contrast + Sharpness/2)
}

// Assess returns min(1, std/255 + 0.5*std(∇²img)/sharpnessScale).
// A non-positive sharpnessScale falls back to DefaultSharpnessScale.
func Assess(img *image.Gray, sharpnessScale float64) float64 {
	return Breakdown(img, sharpnessScale).Score
}

// Breakdown is Assess with the individual terms exposed.
func Breakdown(img *image.Gray, sharpnessScale float64) Components {
	if sharpnessScale <= 0 {
		sharpnessScale = DefaultSharpnessScale
	}
	img = raster.Normalize(img)
	if len(img.Pix) == 0 {
		return Components{}
	}

	px := make([]float64, len(img.Pix))
	for i, v := range img.Pix {
		px[i] = float64(v)
	}
	_, std := stat.PopMeanStdDev(px, nil)
	_, lapStd := raster.MeanStdDev(filter.Laplacian(img))

	c := Components{
		Contrast:  std / 255,
		Sharpness: lapStd / sharpnessScale,
	}
	c.Score = math.Min(1, c.Contrast+0.5*c.Sharpness)
	return c
}
