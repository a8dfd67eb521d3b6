package patch

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-corepoint/internal/taper"
)

const (
	periodFFTSize = 128

	// Bins outside [minPeriodBin, maxPeriodBin] correspond to periods longer
	// than half the transform or shorter than 3 px and are ignored.
	minPeriodBin = 2
	maxPeriodBin = periodFFTSize / 3

	// profileBand is the number of rows (or columns) averaged into a profile.
	profileBand = 5

	// Peaks weaker than this (per-sample power) mean the profile is flat.
	minPeakPower = 1e-6
)

// RidgePeriod estimates the dominant ridge spacing in pixels from the
// horizontal and vertical profiles through the patch center. It returns 0
// when neither profile has a clear spectral peak.
func RidgePeriod(p *Patch) (float64, error) {
	plan, err := algofft.NewPlan64(periodFFTSize)
	if err != nil {
		return 0, fmt.Errorf("patch: failed to create FFT plan: %w", err)
	}

	var best struct {
		power  float64
		period float64
	}
	for _, horizontal := range []bool{true, false} {
		power, period, err := profilePeak(plan, centerProfile(p, horizontal))
		if err != nil {
			return 0, err
		}
		if power > best.power {
			best.power, best.period = power, period
		}
	}

	if best.power < minPeakPower {
		return 0, nil
	}
	return best.period, nil
}

func centerProfile(p *Patch, horizontal bool) []float64 {
	prof := make([]float64, Size)
	for k := HalfSize - profileBand/2; k <= HalfSize+profileBand/2; k++ {
		for i := range prof {
			if horizontal {
				prof[i] += float64(p.Pixels[k][i])
			} else {
				prof[i] += float64(p.Pixels[i][k])
			}
		}
	}
	floats.Scale(1/float64(profileBand), prof)
	return prof
}

func profilePeak(plan *algofft.Plan[complex128], prof []float64) (power, period float64, err error) {
	floats.AddConst(-stat.Mean(prof, nil), prof)
	if err := taper.ApplyHann(prof); err != nil {
		return 0, 0, err
	}

	in := make([]complex128, periodFFTSize)
	for i, v := range prof {
		in[i] = complex(v, 0)
	}
	spectrum := make([]complex128, periodFFTSize)
	if err := plan.Forward(spectrum, in); err != nil {
		return 0, 0, fmt.Errorf("patch: forward FFT: %w", err)
	}

	re := make([]float64, periodFFTSize/2+1)
	im := make([]float64, len(re))
	for k := range re {
		re[k], im[k] = real(spectrum[k]), imag(spectrum[k])
	}
	pw := make([]float64, len(re))
	vecmath.Power(pw, re, im)

	band := pw[minPeriodBin : maxPeriodBin+1]
	k := floats.MaxIdx(band)
	bin := k + minPeriodBin
	return band[k] / float64(Size), float64(periodFFTSize) / float64(bin), nil
}
