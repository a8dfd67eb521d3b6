package cpu

import "testing"

func TestSupportsForceGeneric(t *testing.T) {
	f := Features{HasSSE2: true, HasAVX2: true, HasNEON: true, ForceGeneric: true}

	if !Supports(f, SIMDNone) {
		t.Fatal("SIMDNone must always be supported")
	}

	for _, level := range []SIMDLevel{SIMDSSE2, SIMDAVX2, SIMDNEON} {
		if Supports(f, level) {
			t.Fatalf("ForceGeneric must reject %v", level)
		}
	}
}

func TestBestLevel(t *testing.T) {
	tests := []struct {
		name string
		f    Features
		want SIMDLevel
	}{
		{"none", Features{}, SIMDNone},
		{"sse2", Features{HasSSE2: true}, SIMDSSE2},
		{"avx2", Features{HasSSE2: true, HasAVX: true, HasAVX2: true}, SIMDAVX2},
		{"neon", Features{HasNEON: true}, SIMDNEON},
		{"forced generic", Features{HasAVX2: true, ForceGeneric: true}, SIMDNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestLevel(tt.f); got != tt.want {
				t.Fatalf("BestLevel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestForcedFeaturesOverrideDetection(t *testing.T) {
	SetForcedFeatures(Features{HasNEON: true, Architecture: "test"})
	defer ResetDetection()

	got := DetectFeatures()
	if !got.HasNEON || got.Architecture != "test" {
		t.Fatalf("DetectFeatures = %+v, want forced set", got)
	}

	ResetDetection()

	if DetectFeatures().Architecture == "test" {
		t.Fatal("ResetDetection did not drop forced features")
	}
}

func TestLevelString(t *testing.T) {
	if SIMDAVX2.String() != "AVX2" || SIMDLevel(99).String() != "Unknown" {
		t.Fatal("unexpected SIMDLevel names")
	}
}
