// Package vector provides a separable filter that works on whole rows with
// algo-vecmath block operations instead of per-pixel loops.
package vector

import (
	"github.com/cwbudde/algo-corepoint/raster"
	"github.com/cwbudde/algo-vecmath"
)

// Separable accumulates taps in kernel order, one scaled row at a time,
// matching the summation order of the scalar kernel.
func Separable(dst, tmp, src raster.Field, rowK, colK []float64) {
	w, h := src.W, src.H
	rh := len(rowK) / 2
	pad := make([]float64, w+2*rh)
	scaled := make([]float64, w)

	for y := 0; y < h; y++ {
		in := src.Row(y)
		for i := range pad {
			pad[i] = in[raster.Reflect101(i-rh, w)]
		}
		out := tmp.Row(y)
		clear(out)
		for k, c := range rowK {
			vecmath.ScaleBlock(scaled, pad[k:k+w], c)
			vecmath.AddBlockInPlace(out, scaled)
		}
	}

	ch := len(colK) / 2
	for y := 0; y < h; y++ {
		out := dst.Row(y)
		clear(out)
		for k, c := range colK {
			vecmath.ScaleBlock(scaled, tmp.Row(raster.Reflect101(y+k-ch, h)), c)
			vecmath.AddBlockInPlace(out, scaled)
		}
	}
}
