// Package boost reshapes a buffer's low-frequency content before modulation
// to counteract the spectral loss of the modulate->demodulate round trip.
package boost

import (
	"github.com/cwbudde/algo-approx"
	"github.com/mjibson/go-dsp/fft"
)

// Curve is a per-rfft-bin multiplier sequence of length floor(N/2)+1 for an
// N-sample buffer. All multipliers are non-negative.
type Curve []float64

// identityCurve returns a curve of all ones for an n-sample buffer.
func identityCurve(n int) Curve {
	c := make(Curve, n/2+1)
	for i := range c {
		c[i] = 1.0
	}
	return c
}

// apply multiplies the spectrum of x by the curve and inverse-transforms.
// Conjugate symmetry is preserved by mirroring each positive-frequency gain
// onto its negative-frequency twin.
func (c Curve) apply(x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	spec := fft.FFTReal(x)
	half := n / 2
	for k := 0; k <= half && k < len(c); k++ {
		g := complex(c[k], 0)
		spec[k] *= g
		if k > 0 && k < n-k {
			spec[n-k] *= g
		}
	}

	res := fft.IFFT(spec)
	for i := range out {
		out[i] = real(res[i])
	}
	return out
}

// fastDecay evaluates e^x for the non-positive decay arguments used in the
// curve loops. Arguments below -30 underflow to zero before the fast
// approximation leaves its valid range.
func fastDecay(x float64) float64 {
	if x < -30 {
		return 0
	}
	return float64(approx.FastExp(float32(x)))
}
