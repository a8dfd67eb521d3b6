// Package taper generates the Hann window applied to ridge profiles before
// spectral analysis.
package taper

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

var errMismatchedLength = errors.New("taper: samples and coefficients must have same length")

// Hann returns symmetric Hann coefficients of the given length. Both ends are
// zero; a single-sample window is 1.
func Hann(length int) ([]float64, error) {
	if length <= 0 {
		return nil, fmt.Errorf("taper: length must be > 0: %d", length)
	}

	out := make([]float64, length)
	for i := range out {
		x := 0.5
		if length > 1 {
			x = float64(i) / float64(length-1)
		}
		out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*x)
	}
	return out, nil
}

// ApplyHann multiplies buf in place by a Hann window of the same length.
func ApplyHann(buf []float64) error {
	if len(buf) == 0 {
		return nil
	}
	coeffs, err := Hann(len(buf))
	if err != nil {
		return err
	}
	return ApplyCoefficientsInPlace(buf, coeffs)
}

// ApplyCoefficientsInPlace multiplies samples element-wise with coeffs.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}
	vecmath.MulBlockInPlace(samples, coeffs)
	return nil
}
