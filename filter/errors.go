package filter

import "errors"

var (
	// ErrInvalidKernelSize indicates an even or non-positive kernel size.
	ErrInvalidKernelSize = errors.New("filter: kernel size must be odd and positive")

	// ErrEmptyImage indicates an image without pixels.
	ErrEmptyImage = errors.New("filter: empty image")
)
