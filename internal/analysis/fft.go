package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform with a radix-2
// decimation. Inputs whose length is not a power of two are
// zero-padded up to the next one, so the result length is always a
// power of two.
func FFT(data []float64) []complex128 {
	n := nextPow2(len(data))
	if n != len(data) {
		padded := make([]float64, n)
		copy(padded, data)
		data = padded
	}
	return fft(data)
}

func fft(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// PowerSpectrum returns the magnitude of the first half of the
// transform, one bin per frequency up to Nyquist.
func PowerSpectrum(data []float64) []float64 {
	out := FFT(data)
	ps := make([]float64, len(out)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(out[i])
	}

	return ps
}
