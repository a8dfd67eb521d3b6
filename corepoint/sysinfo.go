package corepoint

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/cwbudde/algo-corepoint/filter/gradient"
	"github.com/cwbudde/algo-corepoint/internal/cpu"
)

// SystemInfo describes the host capabilities relevant to detection.
func SystemInfo() string {
	features := cpu.DetectFeatures()
	simd := "Scalar Only"
	if gradient.VectorAvailable() {
		simd = cpu.BestLevel(features).String() + " Enabled"
	}

	var b strings.Builder
	b.WriteString("CorePointDetector System Info:\n")
	fmt.Fprintf(&b, "- SIMD Support: %s\n", simd)
	fmt.Fprintf(&b, "- Gradient Kernel: %s\n", gradient.New(true).Name())
	fmt.Fprintf(&b, "- Registered Kernels: %s\n", strings.Join(gradient.Kernels(), ", "))
	fmt.Fprintf(&b, "- Architecture: %s/%s (%d CPUs)\n", runtime.GOOS, features.Architecture, runtime.NumCPU())
	fmt.Fprintf(&b, "- Go Version: %s\n", runtime.Version())
	return b.String()
}
