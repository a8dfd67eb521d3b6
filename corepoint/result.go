package corepoint

import (
	"time"

	"github.com/cwbudde/algo-corepoint/patch"
	"github.com/cwbudde/algo-corepoint/singularity"
)

// CorePoint is a detected singular point in pixel coordinates.
type CorePoint = singularity.CorePoint

// Result is the outcome of one detection. Success results carry the
// accepted core point and its patch; all others carry a Failure.
type Result struct {
	CorePoints     []CorePoint
	Patch          patch.Patch
	Quality        float64
	ProcessingTime time.Duration

	// RidgePeriod is the dominant ridge spacing of the patch in pixels,
	// 0 when it could not be estimated.
	RidgePeriod float64

	Failure *Failure
	Success bool
}

// Err returns the failure as an error, or nil on success.
func (r *Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// ValidateCorePoint reports whether p has non-negative coordinates and a
// confidence in [0, 1].
func ValidateCorePoint(p CorePoint) bool {
	return p.X >= 0 && p.Y >= 0 && p.Confidence >= 0 && p.Confidence <= 1
}

// ValidatePatch reports whether p has the mandated patch dimensions.
func ValidatePatch(p *patch.Patch) bool {
	if p == nil {
		return false
	}
	b := p.Bounds()
	return b.Dx() == patch.Size && b.Dy() == patch.Size
}
