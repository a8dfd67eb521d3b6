// Package filter implements the image conditioning used ahead of core-point
// detection: Gaussian smoothing, min–max contrast stretching, histogram
// equalization and the discrete Laplacian.
//
// All operations are pure. They never modify their input and always return
// a freshly allocated image or field with its origin at (0, 0). Borders are
// handled with reflect-101 mirroring.
//
// # Usage
//
//	pre, err := filter.Preprocess(img, 5, 1.0)
//	lap := filter.Laplacian(pre)
package filter
