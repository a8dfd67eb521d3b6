//go:build purego || (!amd64 && !arm64)

package gradient

import (
	_ "github.com/cwbudde/algo-corepoint/filter/gradient/internal/arch/generic"
)
