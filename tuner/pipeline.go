package tuner

import (
	"github.com/cwbudde/algo-parray/analysis"
	"github.com/cwbudde/algo-parray/boost"
	"github.com/cwbudde/algo-parray/signal"
	"github.com/cwbudde/algo-parray/transducer"
)

// Objective scores one parameter candidate.
type Objective func(Params) analysis.Components

// Booster variant names accepted by Pipeline.
const (
	VariantSmooth  = "smooth"
	VariantExtreme = "extreme"
)

// Pipeline composes boost -> modulate -> demodulate -> evaluate for one
// reference buffer. Each Objective call owns its intermediate buffers; no
// state is shared between evaluations.
type Pipeline struct {
	Constants   transducer.Constants
	CarrierFreq float64
	AmpFactor   float64
	Weights     analysis.Weights
	Variant     string
}

// Boost applies the configured booster variant.
func (p Pipeline) Boost(buf *signal.Buffer, par Params) (*signal.Buffer, boost.Curve) {
	if p.Variant == VariantExtreme {
		return boost.Extreme(buf, par.BoostFactor, par.CutoffHz)
	}
	return boost.Smooth(buf, par.BoostFactor, par.CutoffHz, par.FilterOrder)
}

// Render runs the full chain once, returning every intermediate buffer.
func (p Pipeline) Render(original *signal.Buffer, par Params) (boosted, modulated, demodulated *signal.Buffer) {
	boosted, _ = p.Boost(original, par)
	modulated = transducer.Modulate(p.Constants, boosted, p.CarrierFreq, p.AmpFactor)
	demodulated = transducer.Demodulate(p.Constants, modulated)
	return boosted, modulated, demodulated
}

// Objective returns the scoring closure for the training and search loops.
func (p Pipeline) Objective(original *signal.Buffer) Objective {
	return func(par Params) analysis.Components {
		boosted, _, demodulated := p.Render(original, par)
		return analysis.Evaluate(original.Data, demodulated.Data, boosted.Data,
			original.SampleRate, p.Weights)
	}
}
