// Package cpu reports which vector instruction sets the host offers so that
// gradient kernels can be chosen once at detector construction.
//
// Detection runs lazily and is cached. Tests may pin a feature set with
// SetForcedFeatures to exercise every kernel path on any machine.
package cpu

import (
	"sync"
)

// SIMDLevel names a vector instruction set a kernel may require.
// Levels only order within one architecture; AVX2 and NEON are not comparable.
type SIMDLevel int

const (
	// SIMDNone requires nothing beyond portable Go.
	SIMDNone SIMDLevel = iota
	SIMDSSE2
	SIMDAVX
	SIMDAVX2
	SIMDAVX512
	SIMDNEON
)

func (s SIMDLevel) String() string {
	switch s {
	case SIMDNone:
		return "None"
	case SIMDSSE2:
		return "SSE2"
	case SIMDAVX:
		return "AVX"
	case SIMDAVX2:
		return "AVX2"
	case SIMDAVX512:
		return "AVX-512"
	case SIMDNEON:
		return "NEON"
	default:
		return "Unknown"
	}
}

// Features describes the capabilities that influence kernel selection.
type Features struct {
	HasSSE2   bool
	HasAVX    bool
	HasAVX2   bool
	HasAVX512 bool
	HasNEON   bool

	// ForceGeneric restricts selection to SIMDNone kernels.
	ForceGeneric bool

	Architecture string // runtime.GOARCH
}

var (
	detected   Features
	detectOnce sync.Once
	detectMu   sync.Mutex
	forced     *Features
	forcedMu   sync.RWMutex
)

// DetectFeatures returns the host features, or the forced set if one is installed.
// Safe for concurrent use.
func DetectFeatures() Features {
	forcedMu.RLock()
	f := forced
	forcedMu.RUnlock()

	if f != nil {
		return *f
	}

	detectMu.Lock()
	detectOnce.Do(func() {
		detected = detectFeaturesImpl()
	})
	out := detected
	detectMu.Unlock()

	return out
}

// SetForcedFeatures overrides detection. Intended for tests.
func SetForcedFeatures(f Features) {
	forcedMu.Lock()
	defer forcedMu.Unlock()
	cp := f
	forced = &cp
}

// ResetDetection drops any forced features and the detection cache.
func ResetDetection() {
	forcedMu.Lock()
	forced = nil
	forcedMu.Unlock()

	detectMu.Lock()
	detectOnce = sync.Once{}
	detected = Features{}
	detectMu.Unlock()
}

// Supports reports whether a kernel requiring level may run on features.
func Supports(features Features, level SIMDLevel) bool {
	if features.ForceGeneric {
		return level == SIMDNone
	}

	switch level {
	case SIMDNone:
		return true
	case SIMDSSE2:
		return features.HasSSE2
	case SIMDAVX:
		return features.HasAVX
	case SIMDAVX2:
		return features.HasAVX2
	case SIMDAVX512:
		return features.HasAVX512
	case SIMDNEON:
		return features.HasNEON
	default:
		return false
	}
}

// BestLevel returns the widest level the features support.
func BestLevel(features Features) SIMDLevel {
	for _, level := range []SIMDLevel{SIMDAVX512, SIMDAVX2, SIMDAVX, SIMDSSE2, SIMDNEON} {
		if Supports(features, level) {
			return level
		}
	}

	return SIMDNone
}
