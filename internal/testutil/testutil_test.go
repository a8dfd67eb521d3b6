package testutil

import "testing"

func TestStripesRowsIdentical(t *testing.T) {
	img := Stripes(20, 5, 8)
	for y := 1; y < 5; y++ {
		for x := 0; x < 20; x++ {
			if img.GrayAt(x, y) != img.GrayAt(x, 0) {
				t.Fatalf("row %d differs at x=%d", y, x)
			}
		}
	}
	if img.GrayAt(2, 0).Y != 228 || img.GrayAt(6, 0).Y != 28 {
		t.Fatalf("unexpected ridge levels %d %d", img.GrayAt(2, 0).Y, img.GrayAt(6, 0).Y)
	}
}

func TestWhorl(t *testing.T) {
	img := Whorl(60, 50, 8, 25, 20)

	if img.GrayAt(25, 20).Y != 128 {
		t.Fatalf("center = %d, want 128", img.GrayAt(25, 20).Y)
	}
	for y := 0; y < 50; y++ {
		for x := 0; x < 60; x++ {
			if v := img.GrayAt(x, y).Y; v < 28 || v > 228 {
				t.Fatalf("pixel (%d,%d) = %d outside the ridge range", x, y, v)
			}
		}
	}
	// The ridge phase depends on dy only through r.
	for k := 1; k < 20; k++ {
		for x := 0; x < 60; x++ {
			if img.GrayAt(x, 20-k) != img.GrayAt(x, 20+k) {
				t.Fatalf("rows %d and %d differ at x=%d", 20-k, 20+k, x)
			}
		}
	}
}

func TestNoiseDeterministic(t *testing.T) {
	a, b := Noise(8, 8, 42), Noise(8, 8, 42)
	RequireGrayEqual(t, a, b)
}
