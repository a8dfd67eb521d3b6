package corepoint

import (
	"sync"
	"time"
)

// Stats are running totals over every Detect call of one Detector.
type Stats struct {
	ImagesProcessed       int           `json:"images_processed"`
	Successes             int           `json:"successes"`
	Failures              int           `json:"failures"`
	AverageProcessingTime time.Duration `json:"average_processing_time"`
	AverageConfidence     float64       `json:"average_confidence"`
	SIMDOperations        int           `json:"simd_operations"`
}

// statsAccumulator updates Stats incrementally under a mutex. Averages use
// avg' = (avg*(n-1) + x)/n, with n counting all images for latency and only
// successes for confidence.
type statsAccumulator struct {
	mu        sync.Mutex
	s         Stats
	avgTimeNs float64
}

func (a *statsAccumulator) record(res *Result, vectorized bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.s.ImagesProcessed++
	if res.Success {
		a.s.Successes++
		if len(res.CorePoints) > 0 {
			n := float64(a.s.Successes)
			a.s.AverageConfidence = (a.s.AverageConfidence*(n-1) + res.CorePoints[0].Confidence) / n
		}
	} else {
		a.s.Failures++
	}

	n := float64(a.s.ImagesProcessed)
	a.avgTimeNs = (a.avgTimeNs*(n-1) + float64(res.ProcessingTime)) / n
	a.s.AverageProcessingTime = time.Duration(a.avgTimeNs)

	if vectorized {
		a.s.SIMDOperations++
	}
}

func (a *statsAccumulator) snapshot() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.s
}

func (a *statsAccumulator) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.s = Stats{}
	a.avgTimeNs = 0
}
