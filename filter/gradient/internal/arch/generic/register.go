package generic

import (
	"github.com/cwbudde/algo-corepoint/filter"
	"github.com/cwbudde/algo-corepoint/filter/gradient/internal/arch/registry"
	"github.com/cwbudde/algo-corepoint/internal/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "generic",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,
		Separable: filter.SepFilter2DTo,
	})
}
