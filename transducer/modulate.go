package transducer

import (
	"math"

	"github.com/cwbudde/algo-parray/signal"
)

// Modulate applies double-sideband amplitude modulation to a baseband buffer,
// producing the carrier-band pressure signal at the listener distance:
//
//	y[i] = P0 (1 + m x[i]) e^(-alpha z) sin(2 pi fc t) ampFactor
//
// Fully deterministic; no error paths.
func Modulate(c Constants, buf *signal.Buffer, carrierFreq, ampFactor float64) *signal.Buffer {
	out := signal.New(buf.SampleRate, len(buf.Data))
	if len(buf.Data) == 0 {
		return out
	}

	atten := math.Exp(-c.Absorption * c.Distance)
	w := 2.0 * math.Pi * carrierFreq
	for i, x := range buf.Data {
		t := float64(i) / float64(buf.SampleRate)
		carrier := math.Sin(w * t)
		out.Data[i] = c.PrimaryAmplitude * (1.0 + c.ModulationIndex*x) * atten * carrier * ampFactor
	}
	return out
}
