//go:build amd64 && !purego

package vector

import (
	"github.com/cwbudde/algo-corepoint/filter/gradient/internal/arch/registry"
	"github.com/cwbudde/algo-corepoint/internal/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "vecmath-sse2",
		SIMDLevel: cpu.SIMDSSE2,
		Priority:  10,
		Separable: Separable,
	})
}
