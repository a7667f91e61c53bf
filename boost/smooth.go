package boost

import (
	"math"

	"github.com/cwbudde/algo-parray/dsp"
	"github.com/cwbudde/algo-parray/signal"
)

const freqEpsilon = 0.01 // Hz, keeps the 1/f terms finite at DC

// Smooth boosts frequencies below cutoffHz with a logarithmic base gain, a
// power-law 1/f emphasis and an exponential warp toward DC, plus an extra
// sub-bass term below a quarter of the cutoff. The curve is floored at 1.0
// below the cutoff and is exactly 1.0 at and above it.
//
// filterOrder is accepted for interface symmetry with Extreme; it does not
// affect this algorithm. Stateless: no hidden state survives between calls.
func Smooth(buf *signal.Buffer, boostFactor, cutoffHz float64, filterOrder int) (*signal.Buffer, Curve) {
	_ = filterOrder

	n := len(buf.Data)
	curve := identityCurve(n)
	if n == 0 || cutoffHz <= 0 {
		return buf.Clone(), curve
	}

	binHz := float64(buf.SampleRate) / float64(n)
	modified := false
	for k := range curve {
		f := float64(k) * binHz
		if f >= cutoffHz {
			continue
		}

		base := boostFactor * math.Log(2.0+(cutoffHz-f)/cutoffHz)
		nonlinear := math.Max(1.0, math.Pow(cutoffHz/(f+freqEpsilon), 0.75))
		warp := 1.0 + fastDecay(-f/(cutoffHz*0.5))
		m := base * nonlinear * warp
		if f < cutoffHz/4.0 {
			m *= math.Sqrt(cutoffHz / (f + freqEpsilon))
		}
		if m < 1.0 {
			m = 1.0
		}
		curve[k] = m
		modified = true
	}
	if !modified {
		return buf.Clone(), curve
	}

	out := signal.FromSamples(buf.SampleRate, curve.apply(buf.Data))

	// Soft headroom: pull peaks back under 1.0 with a 5% margin.
	peak := dsp.MaxAbs(out.Data)
	if peak > 1.0 {
		inv := 1.0 / (peak * 1.05)
		for i := range out.Data {
			out.Data[i] *= inv
		}
	}
	return out, curve
}
