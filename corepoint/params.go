package corepoint

import (
	"math"

	"github.com/cwbudde/algo-corepoint/quality"
)

// Params configures detection. Use DefaultParams as a starting point; New
// corrects out-of-range values instead of rejecting them.
type Params struct {
	// MinConfidence is the lowest accepted refined confidence, in [0, 1].
	MinConfidence float64

	// GaussianKernelSize is the smoothing aperture. Even sizes are rounded up.
	GaussianKernelSize int
	GaussianSigma      float64

	// SobelKernelSize is the gradient aperture. Even sizes are rounded up.
	SobelKernelSize int

	// BlockSize drives the quality window, the scan grid stride (BlockSize/2),
	// the scan margin and the neighborhood radius.
	BlockSize int

	// RidgeThreshold is carried for configuration compatibility. The
	// pipeline does not consume it.
	RidgeThreshold float64

	// UseSIMD selects the vectorized gradient kernel when the host has one.
	UseSIMD bool

	// MinImageQuality gates images after preprocessing, in [0, 1].
	MinImageQuality float64

	// SharpnessScale divides the Laplacian std-dev in the quality score.
	SharpnessScale float64
}

// DefaultParams returns the standard detection settings.
func DefaultParams() Params {
	return Params{
		MinConfidence:      0.3,
		GaussianKernelSize: 5,
		GaussianSigma:      1.0,
		SobelKernelSize:    3,
		BlockSize:          16,
		RidgeThreshold:     0.5,
		UseSIMD:            true,
		MinImageQuality:    0.2,
		SharpnessScale:     quality.DefaultSharpnessScale,
	}
}

// Normalize returns p with every field brought into its valid range:
// non-positive sizes, sigma and scale take their defaults, even kernel sizes
// are incremented, and confidence and quality thresholds are clamped to [0, 1].
// UseSIMD is left untouched; host support is checked by New.
func (p Params) Normalize() Params {
	def := DefaultParams()

	p.GaussianKernelSize = oddSize(p.GaussianKernelSize, def.GaussianKernelSize)
	p.SobelKernelSize = oddSize(p.SobelKernelSize, def.SobelKernelSize)
	if p.BlockSize < 2 {
		p.BlockSize = def.BlockSize
	}
	if !(p.GaussianSigma > 0) {
		p.GaussianSigma = def.GaussianSigma
	}
	if !(p.SharpnessScale > 0) {
		p.SharpnessScale = def.SharpnessScale
	}
	p.MinConfidence = unit(p.MinConfidence, def.MinConfidence)
	p.MinImageQuality = unit(p.MinImageQuality, def.MinImageQuality)
	return p
}

func oddSize(v, def int) int {
	if v <= 0 {
		return def
	}
	if v%2 == 0 {
		return v + 1
	}
	return v
}

func unit(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return math.Min(1, math.Max(0, v))
}
