// Package corepoint detects the core point of a fingerprint and extracts the
// 101×101 patch centered on it.
//
// A Detector runs every image through a fixed pipeline: input validation,
// Gaussian smoothing with contrast normalization, a global quality gate,
// the ridge orientation field, a block-contrast quality field, a coarse scan
// for orientation singularities, selection and rescoring of the strongest
// candidate, and finally patch extraction from the unprocessed input.
// Each image ends either in a successful Result or in a Result carrying a
// *Failure that names the stage that rejected it. Panics inside the pipeline
// are recovered and reported as KindFault failures.
//
// A Detector keeps running statistics across calls and may be shared between
// goroutines. DetectBatch processes a slice of images sequentially or on a
// bounded worker pool and always returns results in input order.
//
// # Usage
//
//	d := corepoint.New(corepoint.DefaultParams(), corepoint.WithLogger(log))
//	res := d.Detect(img, "thumb.png", -1)
//	if !res.Success {
//		return res.Err()
//	}
//	core := res.CorePoints[0]
package corepoint
