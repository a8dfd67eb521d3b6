//go:build amd64 && !purego

package gradient

import (
	"testing"

	"github.com/cwbudde/algo-corepoint/internal/cpu"
)

func TestDispatch_AMD64Modes(t *testing.T) {
	tests := []struct {
		name         string
		features     cpu.Features
		preferVector bool
		wantImpl     string
	}{
		{
			name:         "generic-forced",
			features:     cpu.Features{HasSSE2: true, ForceGeneric: true, Architecture: "amd64"},
			preferVector: true,
			wantImpl:     "generic",
		},
		{
			name:         "sse2",
			features:     cpu.Features{HasSSE2: true, Architecture: "amd64"},
			preferVector: true,
			wantImpl:     "vecmath-sse2",
		},
		{
			name:         "vector-declined",
			features:     cpu.Features{HasSSE2: true, HasAVX2: true, Architecture: "amd64"},
			preferVector: false,
			wantImpl:     "generic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu.SetForcedFeatures(tt.features)

			defer cpu.ResetDetection()

			op := New(tt.preferVector)
			if op.Name() != tt.wantImpl {
				t.Fatalf("expected %q, got %q", tt.wantImpl, op.Name())
			}
		})
	}
}

func TestVectorAvailable_AMD64(t *testing.T) {
	cpu.SetForcedFeatures(cpu.Features{HasSSE2: true, Architecture: "amd64"})
	defer cpu.ResetDetection()

	if !VectorAvailable() {
		t.Fatal("expected vector kernel on an SSE2 host")
	}

	cpu.SetForcedFeatures(cpu.Features{ForceGeneric: true, Architecture: "amd64"})
	if VectorAvailable() {
		t.Fatal("expected no vector kernel with ForceGeneric")
	}
}
