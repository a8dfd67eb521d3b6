// Package gradient computes Sobel image gradients of any odd aperture.
//
// The separable correlation behind the operator has two interchangeable
// kernels: a portable scalar loop and a row-vectorized kernel built on
// algo-vecmath. An Operator binds one of them when it is created, based on the
// host CPU and the caller's preference, and keeps it for its lifetime.
package gradient

import (
	"errors"
	"image"

	"github.com/cwbudde/algo-corepoint/filter"
	archregistry "github.com/cwbudde/algo-corepoint/filter/gradient/internal/arch/registry"
	"github.com/cwbudde/algo-corepoint/internal/cpu"
	"github.com/cwbudde/algo-corepoint/raster"
)

// ErrInvalidKernelSize indicates an even or non-positive Sobel aperture.
var ErrInvalidKernelSize = errors.New("gradient: sobel kernel size must be odd and positive")

// Operator computes gradients with the kernel chosen at construction.
// It is safe for concurrent use.
type Operator struct {
	entry archregistry.OpEntry
}

// New selects a kernel. With preferVector false, or when the host offers no
// vectorized kernel, the scalar kernel is used.
func New(preferVector bool) *Operator {
	features := cpu.DetectFeatures()
	if !preferVector {
		features.ForceGeneric = true
	}

	entry := archregistry.Global.Lookup(features)
	if entry == nil {
		panic("gradient: no separable kernel registered (missing generic fallback?)")
	}

	return &Operator{entry: *entry}
}

// VectorAvailable reports whether the host has a vectorized kernel.
func VectorAvailable() bool {
	entry := archregistry.Global.Lookup(cpu.DetectFeatures())
	return entry != nil && entry.Vectorized()
}

// Kernels lists the names of all registered kernels, including ones the host
// cannot run.
func Kernels() []string {
	entries := archregistry.Global.ListEntries()
	names := make([]string, len(entries))
	for i := range entries {
		names[i] = entries[i].Name
	}
	return names
}

// Name identifies the bound kernel, e.g. "generic" or "vecmath-sse2".
func (o *Operator) Name() string { return o.entry.Name }

// Vectorized reports whether the bound kernel is the vectorized one.
func (o *Operator) Vectorized() bool { return o.entry.Vectorized() }

// Level is the SIMD level the bound kernel requires.
func (o *Operator) Level() cpu.SIMDLevel { return o.entry.SIMDLevel }

// Gradients returns the horizontal and vertical Sobel derivatives of img.
func (o *Operator) Gradients(img *image.Gray, ksize int) (gx, gy raster.Field, err error) {
	deriv, smooth, err := SobelKernels(ksize)
	if err != nil {
		return raster.Field{}, raster.Field{}, err
	}

	src := raster.FromGray(raster.Normalize(img))
	tmp := raster.NewField(src.W, src.H)
	gx = raster.NewField(src.W, src.H)
	gy = raster.NewField(src.W, src.H)

	o.entry.Separable(gx, tmp, src, deriv, smooth)
	o.entry.Separable(gy, tmp, src, smooth, deriv)

	return gx, gy, nil
}

// SobelKernels returns the first-derivative and smoothing taps of a Sobel
// operator of size ksize. Size 1 yields the unsmoothed [-1 0 1] difference.
func SobelKernels(ksize int) (deriv, smooth []float64, err error) {
	if ksize <= 0 || ksize%2 == 0 {
		return nil, nil, ErrInvalidKernelSize
	}
	if ksize == 1 {
		return []float64{-1, 0, 1}, []float64{1}, nil
	}

	smooth = filter.Binomial(ksize)
	base := filter.Binomial(ksize - 2)
	deriv = make([]float64, ksize)
	for i, b := range base {
		deriv[i] -= b
		deriv[i+2] += b
	}

	return deriv, smooth, nil
}
