package quality

import (
	"image"
	"testing"

	"github.com/cwbudde/algo-corepoint/internal/testutil"
)

func TestAssessFlatIsZero(t *testing.T) {
	if got := Assess(testutil.Flat(64, 64, 180), 0); got != 0 {
		t.Fatalf("Assess(flat) = %v, want 0", got)
	}
}

func TestAssessBinaryCheckerSaturates(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if (x+y)%2 == 0 {
				img.Pix[y*32+x] = 255
			}
		}
	}
	// Contrast alone is 0.5; the Laplacian term of ±1020 pushes past 1.
	if got := Assess(img, DefaultSharpnessScale); got != 1 {
		t.Fatalf("Assess(checker) = %v, want 1", got)
	}
}

func TestBreakdownHalfSplit(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 5; x < 10; x++ {
			img.Pix[y*10+x] = 200
		}
	}

	c := Breakdown(img, DefaultSharpnessScale)
	testutil.RequireNearlyEqual(t, c.Contrast, 100.0/255, 1e-12)
	if c.Sharpness <= 0 {
		t.Fatalf("Sharpness = %v, want > 0 for a step edge", c.Sharpness)
	}
	testutil.RequireNearlyEqual(t, c.Score, c.Contrast+0.5*c.Sharpness, 1e-12)
}

func TestSharpnessScaleTunable(t *testing.T) {
	img := testutil.Stripes(64, 64, 8)

	coarse := Breakdown(img, 1000)
	fine := Breakdown(img, 4000)
	testutil.RequireNearlyEqual(t, coarse.Sharpness, 4*fine.Sharpness, 1e-12)
	if coarse.Contrast != fine.Contrast {
		t.Fatal("contrast must not depend on the sharpness scale")
	}
}

func TestAssessBounded(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		got := Assess(testutil.Noise(50, 40, seed), 0)
		if got < 0 || got > 1 {
			t.Fatalf("seed %d: %v outside [0, 1]", seed, got)
		}
	}
}
