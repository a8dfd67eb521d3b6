package testutil

import (
	"image"
	"math"
	"testing"
)

// RequireNearlyEqual fails t if |got-want| > eps.
func RequireNearlyEqual(t *testing.T, got, want, eps float64) {
	t.Helper()
	if d := math.Abs(got - want); d > eps || math.IsNaN(d) {
		t.Fatalf("got %v, want %v (diff %v > eps %v)", got, want, d, eps)
	}
}

// RequireSliceNearlyEqual fails t on a length mismatch or on the first
// element pair further apart than eps.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if d := math.Abs(got[i] - want[i]); d > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], d, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireGrayEqual fails t unless a and b have the same size and pixels.
func RequireGrayEqual(t *testing.T, got, want *image.Gray) {
	t.Helper()
	gb, wb := got.Bounds(), want.Bounds()
	if gb.Dx() != wb.Dx() || gb.Dy() != wb.Dy() {
		t.Fatalf("size mismatch: got %v, want %v", gb.Size(), wb.Size())
	}
	for y := 0; y < gb.Dy(); y++ {
		for x := 0; x < gb.Dx(); x++ {
			g := got.GrayAt(gb.Min.X+x, gb.Min.Y+y).Y
			w := want.GrayAt(wb.Min.X+x, wb.Min.Y+y).Y
			if g != w {
				t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, g, w)
			}
		}
	}
}
