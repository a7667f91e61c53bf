package dsp

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Envelope returns the instantaneous amplitude envelope of x: the magnitude
// of the analytic signal obtained via the Hilbert transform. The negative
// frequency half of the spectrum is zeroed and the positive half doubled;
// DC (and the Nyquist bin for even lengths) are kept as-is.
func Envelope(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []float64{cmplx.Abs(complex(x[0], 0))}
	}

	spec := fft.FFTReal(x)
	half := n / 2
	for k := 1; k < half; k++ {
		spec[k] *= 2
	}
	if n%2 != 0 {
		spec[half] *= 2
	}
	for k := half + 1; k < n; k++ {
		spec[k] = 0
	}

	analytic := fft.IFFT(spec)
	env := make([]float64, n)
	for i, c := range analytic {
		env[i] = cmplx.Abs(c)
	}
	return env
}
