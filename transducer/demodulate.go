package transducer

import (
	"math"

	"github.com/cwbudde/algo-parray/dsp"
	"github.com/cwbudde/algo-parray/signal"
)

// Demodulate inverts the nonlinear air-propagation model and recovers an
// estimate of the baseband signal from a carrier-band buffer. Discretized
// Berktay inversion: envelope, square, lowpass, second time-derivative,
// closed-form scaling, ultrasonic cleanup, peak normalization.
//
// An all-zero input yields an all-zero output; no division errors occur.
func Demodulate(c Constants, buf *signal.Buffer) *signal.Buffer {
	n := len(buf.Data)
	out := signal.New(buf.SampleRate, n)
	if n == 0 {
		return out
	}

	sr := float64(buf.SampleRate)
	nyquist := 0.5 * sr

	// Envelope of the analytic signal, then square: the nonlinear mixing in
	// air produces a source term proportional to the squared envelope.
	env := dsp.Envelope(buf.Data)
	for i, v := range env {
		env[i] = v * v
	}

	// Zero-phase 4-pole lowpass at a tenth of Nyquist before differentiating.
	filtered := dsp.LowpassZeroPhase(env, 0.1*nyquist, sr, 4)

	// A constant squared envelope means the carrier carries no modulation
	// (silent or zero input); its derivative would be float rounding noise
	// amplified by sampleRate^2, so return exact silence instead.
	if isNearlyConstant(filtered) {
		return out
	}

	// Second time-derivative with the Berktay scaling constant.
	d2 := dsp.SecondDerivative(filtered, sr)
	scale := c.berktayScale()
	for i := range d2 {
		d2[i] *= scale
	}

	// Residual ultrasonic leakage cleanup: zero-phase 6-pole lowpass.
	cutoff := math.Min(20000.0, 0.45*nyquist)
	cleaned := dsp.LowpassZeroPhase(d2, cutoff, sr, 6)

	copy(out.Data, cleaned)
	dsp.NormalizePeak(out.Data)
	return out
}

func isNearlyConstant(x []float64) bool {
	if len(x) == 0 {
		return true
	}
	mn, mx := x[0], x[0]
	for _, v := range x[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	span := mx - mn
	ref := math.Max(math.Abs(mn), math.Abs(mx))
	return span <= 1e-9*ref
}
