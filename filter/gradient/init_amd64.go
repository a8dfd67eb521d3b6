//go:build amd64 && !purego

package gradient

import (
	_ "github.com/cwbudde/algo-corepoint/filter/gradient/internal/arch/generic" // register generic backend
	_ "github.com/cwbudde/algo-corepoint/filter/gradient/internal/arch/vector"  // register vecmath backend
)
