// Package ridge estimates the local ridge geometry of a fingerprint: the
// orientation of the ridge flow and a per-pixel contrast-based quality.
package ridge

import (
	"math"

	"github.com/cwbudde/algo-corepoint/raster"
)

// OrientationField returns the doubled-angle orientation estimate
// 0.5*atan2(2*gx*gy, gx²-gy²) at every pixel. Values lie in [-π/2, π/2].
// gx and gy must have equal dimensions.
func OrientationField(gx, gy raster.Field) raster.Field {
	out := raster.NewField(gx.W, gx.H)
	for i, x := range gx.Data {
		y := gy.Data[i]
		out.Data[i] = 0.5 * math.Atan2(2*x*y, x*x-y*y)
	}
	return out
}

// CircularDiff returns the angular distance min(|a-b|, 2π-|a-b|).
func CircularDiff(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 2*math.Pi-d)
}
