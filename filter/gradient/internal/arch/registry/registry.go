package registry

import (
	"sync"

	"github.com/cwbudde/algo-corepoint/internal/cpu"
	"github.com/cwbudde/algo-corepoint/raster"
)

// SeparableFn correlates src with rowK along x and colK along y into dst,
// using tmp as the intermediate buffer. Borders use reflect-101.
// dst, tmp and src share dimensions and must not alias.
type SeparableFn func(dst, tmp, src raster.Field, rowK, colK []float64)

// OpEntry is one registered separable-filter kernel.
type OpEntry struct {
	Name      string
	SIMDLevel cpu.SIMDLevel
	Priority  int
	Separable SeparableFn
}

// Vectorized reports whether the entry needs more than portable Go.
func (e *OpEntry) Vectorized() bool { return e.SIMDLevel != cpu.SIMDNone }

// OpRegistry stores available implementations.
type OpRegistry struct {
	mu      sync.RWMutex
	entries []OpEntry
	sorted  bool
}

// Global is the default gradient kernel registry.
var Global = &OpRegistry{}

// Register adds an implementation entry.
func (r *OpRegistry) Register(entry OpEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup returns the highest-priority implementation supported by features,
// or nil when nothing qualifies.
func (r *OpRegistry) Lookup(features cpu.Features) *OpEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}

	for i := range r.entries {
		if cpu.Supports(features, r.entries[i].SIMDLevel) {
			entry := r.entries[i]
			return &entry
		}
	}

	return nil
}

// insertion sort, stable for equal priorities
func (r *OpRegistry) sortByPriority() {
	for i := 1; i < len(r.entries); i++ {
		key := r.entries[i]
		j := i - 1
		for j >= 0 && r.entries[j].Priority < key.Priority {
			r.entries[j+1] = r.entries[j]
			j--
		}
		r.entries[j+1] = key
	}
}

// ListEntries returns a copy of the entries for tests and diagnostics.
func (r *OpRegistry) ListEntries() []OpEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]OpEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Reset clears all entries. Intended for tests.
func (r *OpRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.sorted = false
}
