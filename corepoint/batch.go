package corepoint

import (
	"image"

	"github.com/cwbudde/algo-corepoint/internal/workpool"
)

// DetectBatch runs Detect on every image and returns the results in input
// order. filenames[i] names images[i]; missing names are empty. With
// parallel set and more than one image, images are processed concurrently
// on at most WithMaxWorkers goroutines.
func (d *Detector) DetectBatch(images []image.Image, filenames []string, parallel bool) []Result {
	results := make([]Result, len(images))
	name := func(i int) string {
		if i < len(filenames) {
			return filenames[i]
		}
		return ""
	}

	if parallel && len(images) > 1 {
		workpool.Map(d.maxWorkers, len(images), func(i int) {
			results[i] = d.Detect(images[i], name(i), i)
		})
		return results
	}

	for i, img := range images {
		results[i] = d.Detect(img, name(i), i)
	}
	return results
}
