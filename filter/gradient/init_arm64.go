//go:build arm64 && !purego

package gradient

import (
	_ "github.com/cwbudde/algo-corepoint/filter/gradient/internal/arch/generic"
	_ "github.com/cwbudde/algo-corepoint/filter/gradient/internal/arch/vector"
)
