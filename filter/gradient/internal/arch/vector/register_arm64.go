//go:build arm64 && !purego

package vector

import (
	"github.com/cwbudde/algo-corepoint/filter/gradient/internal/arch/registry"
	"github.com/cwbudde/algo-corepoint/internal/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "vecmath-neon",
		SIMDLevel: cpu.SIMDNEON,
		Priority:  10,
		Separable: Separable,
	})
}
