package boost

import (
	"math"

	"github.com/cwbudde/algo-parray/dsp"
	"github.com/cwbudde/algo-parray/signal"
)

// transitionHz is the width of the raised-cosine band just below the cutoff
// that interpolates the boost edge value down to unity, avoiding the ringing
// a hard spectral step would produce.
const transitionHz = 200.0

// Extreme applies the tiered bass boost. Sub-cutoff bins split into a boost
// region (f <= cutoff - 200 Hz) and a raised-cosine transition region; bins
// at and above the cutoff stay exactly 1.0. Output energy is rescaled toward
// the input RMS and peaks above 0.9 are tamed with a tanh saturator rather
// than hard clipping.
func Extreme(buf *signal.Buffer, boostFactor, cutoffHz float64) (*signal.Buffer, Curve) {
	n := len(buf.Data)
	curve := identityCurve(n)
	if n == 0 || cutoffHz <= 0 {
		return buf.Clone(), curve
	}

	edgeHz := cutoffHz - transitionHz
	if edgeHz < 0 {
		edgeHz = 0
	}
	edgeGain := tierMultiplier(boostFactor, cutoffHz, edgeHz)

	binHz := float64(buf.SampleRate) / float64(n)
	modified := false
	for k := range curve {
		f := float64(k) * binHz
		switch {
		case f >= cutoffHz:
			// Invariant: never boosted.
		case f <= edgeHz:
			curve[k] = tierMultiplier(boostFactor, cutoffHz, f)
			modified = true
		default:
			// Raised-cosine interpolation from the boost edge down to 1.0.
			tt := (f - edgeHz) / (cutoffHz - edgeHz)
			curve[k] = 1.0 + (edgeGain-1.0)*0.5*(1.0+math.Cos(math.Pi*tt))
			modified = true
		}
	}
	if !modified {
		return buf.Clone(), curve
	}

	out := signal.FromSamples(buf.SampleRate, curve.apply(buf.Data))

	// Keep output energy near the input: 1.2x compensation bias, ratio
	// clamped to [0.5, 2.0]. Silence skips the rescale entirely.
	rmsIn := dsp.RMS(buf.Data)
	rmsOut := dsp.RMS(out.Data)
	if rmsIn > 0 && rmsOut > 0 {
		gain := 1.2 * rmsIn / rmsOut
		if gain < 0.5 {
			gain = 0.5
		}
		if gain > 2.0 {
			gain = 2.0
		}
		for i := range out.Data {
			out.Data[i] *= gain
		}
	}

	if dsp.MaxAbs(out.Data) > 0.9 {
		for i := range out.Data {
			out.Data[i] = 0.9 * math.Tanh(out.Data[i]/0.9)
		}
	}
	return out, curve
}

// tierMultiplier is the boost-region gain at frequency f: logarithmic base,
// power-law 1/f emphasis, DC warp, psychoacoustic low-end weighting, and a
// sub-band tier factor.
func tierMultiplier(boostFactor, cutoffHz, f float64) float64 {
	freqRatio := (cutoffHz - f) / cutoffHz
	base := boostFactor * (5.0 + 6.0*math.Log(4.0+3.0*freqRatio))
	nonlinear := math.Pow(cutoffHz/(f+freqEpsilon), 1.2)
	warp := 1.0 + 5.0*fastDecay(-f/(cutoffHz*0.5))
	psycho := 1.0 + 6.0*fastDecay(-f/35.0)

	tier := 2.5
	switch {
	case f <= 30:
		tier = 8.0
	case f <= 80:
		tier = 5.0
	case f <= 150:
		tier = 3.5
	}
	return base * nonlinear * warp * psycho * tier
}
