package filter

import "github.com/cwbudde/algo-corepoint/raster"

// SepFilter2D correlates src with rowK along x and then colK along y.
// Samples outside the field are mirrored with reflect-101.
// Taps are accumulated in kernel order so results are reproducible.
func SepFilter2D(src raster.Field, rowK, colK []float64) raster.Field {
	tmp := raster.NewField(src.W, src.H)
	dst := raster.NewField(src.W, src.H)
	SepFilter2DTo(dst, tmp, src, rowK, colK)
	return dst
}

// SepFilter2DTo is the allocation-free form of SepFilter2D.
// dst and tmp must match src in size and must not alias it.
func SepFilter2DTo(dst, tmp, src raster.Field, rowK, colK []float64) {
	w, h := src.W, src.H
	rh := len(rowK) / 2
	for y := 0; y < h; y++ {
		in := src.Row(y)
		out := tmp.Row(y)
		for x := 0; x < w; x++ {
			acc := 0.0
			for k, c := range rowK {
				acc += c * in[raster.Reflect101(x+k-rh, w)]
			}
			out[x] = acc
		}
	}

	ch := len(colK) / 2
	for y := 0; y < h; y++ {
		out := dst.Row(y)
		for x := range out {
			out[x] = 0
		}
		for k, c := range colK {
			in := tmp.Row(raster.Reflect101(y+k-ch, h))
			for x := range out {
				out[x] += c * in[x]
			}
		}
	}
}
