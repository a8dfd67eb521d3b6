package filter

import "math"

// GaussianKernel returns a normalized Gaussian of odd length ksize.
// A non-positive sigma is derived from the size as 0.3*((ksize-1)*0.5-1)+0.8.
func GaussianKernel(ksize int, sigma float64) ([]float64, error) {
	if ksize <= 0 || ksize%2 == 0 {
		return nil, ErrInvalidKernelSize
	}
	if sigma <= 0 {
		sigma = 0.3*((float64(ksize)-1)*0.5-1) + 0.8
	}

	k := make([]float64, ksize)
	half := float64(ksize-1) / 2
	scale := -0.5 / (sigma * sigma)
	sum := 0.0
	for i := range k {
		d := float64(i) - half
		k[i] = math.Exp(scale * d * d)
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k, nil
}

// Binomial returns row n-1 of Pascal's triangle, the length-n smoothing kernel.
func Binomial(n int) []float64 {
	if n <= 0 {
		return nil
	}
	k := make([]float64, n)
	k[0] = 1
	for i := 1; i < n; i++ {
		for j := i; j > 0; j-- {
			k[j] += k[j-1]
		}
	}
	return k
}
