package registry

import (
	"testing"

	"github.com/cwbudde/algo-corepoint/internal/cpu"
)

func TestLookupPrefersHigherPriority(t *testing.T) {
	reg := &OpRegistry{}
	reg.Register(OpEntry{Name: "generic", SIMDLevel: cpu.SIMDNone, Priority: 0})
	reg.Register(OpEntry{Name: "neon", SIMDLevel: cpu.SIMDNEON, Priority: 10})
	reg.Register(OpEntry{Name: "sse2", SIMDLevel: cpu.SIMDSSE2, Priority: 10})

	tests := []struct {
		name     string
		features cpu.Features
		want     string
	}{
		{"sse2 host", cpu.Features{HasSSE2: true}, "sse2"},
		{"neon host", cpu.Features{HasNEON: true}, "neon"},
		{"bare host", cpu.Features{}, "generic"},
		{"forced generic", cpu.Features{HasSSE2: true, ForceGeneric: true}, "generic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := reg.Lookup(tt.features)
			if entry == nil || entry.Name != tt.want {
				t.Fatalf("expected %s, got %#v", tt.want, entry)
			}
		})
	}
}

func TestLookupEmptyRegistry(t *testing.T) {
	if entry := (&OpRegistry{}).Lookup(cpu.Features{}); entry != nil {
		t.Fatalf("expected nil, got %#v", entry)
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	reg := &OpRegistry{}
	reg.Register(OpEntry{Name: "generic"})

	entry := reg.Lookup(cpu.Features{})
	entry.Name = "mutated"

	if reg.ListEntries()[0].Name != "generic" {
		t.Fatal("Lookup leaked a pointer into the registry")
	}
}

func TestVectorized(t *testing.T) {
	if (&OpEntry{SIMDLevel: cpu.SIMDNone}).Vectorized() {
		t.Fatal("SIMDNone entry reported as vectorized")
	}
	if !(&OpEntry{SIMDLevel: cpu.SIMDAVX2}).Vectorized() {
		t.Fatal("AVX2 entry not reported as vectorized")
	}
}

func TestReset(t *testing.T) {
	reg := &OpRegistry{}
	reg.Register(OpEntry{Name: "generic"})
	reg.Reset()

	if n := len(reg.ListEntries()); n != 0 {
		t.Fatalf("expected empty registry after Reset, got %d entries", n)
	}
}
