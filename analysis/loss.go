package analysis

// STFT parameters shared by the loss terms.
const (
	lossFFTSize = 1024
	lossHop     = 256

	// Band edge for the low-frequency power shortfall term.
	lowFreqLimitHz = 300.0
)

// Weights are the loss-term weights. DistortionPenalty dominates by design,
// reflecting its small natural magnitude.
type Weights struct {
	Waveform   float64 `json:"waveform"`
	LowFreq    float64 `json:"low_freq"`
	Distortion float64 `json:"distortion"`
	FreqDiff   float64 `json:"freq_diff"`
}

// DefaultWeights returns the standard weighting (1.0, 1.2, 30.0, 1.0).
func DefaultWeights() Weights {
	return Weights{Waveform: 1.0, LowFreq: 1.2, Distortion: 30.0, FreqDiff: 1.0}
}

// Components is the named record of the four loss terms plus their weighted
// sum. All terms are non-negative for finite inputs.
type Components struct {
	WaveformMSE       float64 `json:"waveform_mse"`
	LowFreqPenalty    float64 `json:"low_freq_penalty"`
	DistortionPenalty float64 `json:"distortion_penalty"`
	FreqDiff          float64 `json:"freq_diff"`
	Total             float64 `json:"total"`
}

// Evaluate scores a demodulated candidate against the original signal and
// the boosted signal it came from. Length mismatches are resolved by
// truncating to the shorter common extent at every comparison point.
func Evaluate(original, demodulated, boosted []float64, sampleRate int, w Weights) Components {
	var c Components

	// Sample-wise waveform error.
	n := len(original)
	if len(demodulated) < n {
		n = len(demodulated)
	}
	if n > 0 {
		var sum float64
		for i := 0; i < n; i++ {
			d := original[i] - demodulated[i]
			sum += d * d
		}
		c.WaveformMSE = sum / float64(n)
	}

	// Relative shortfall of low-frequency spectrogram power, floored at 0:
	// exceeding the original earns no reward.
	sgOrig := ComputeSpectrogram(original, sampleRate, lossFFTSize, lossHop)
	sgDemod := ComputeSpectrogram(demodulated, sampleRate, lossFFTSize, lossHop)
	if po := sgOrig.PowerBelow(lowFreqLimitHz); po > 0 {
		shortfall := (po - sgDemod.PowerBelow(lowFreqLimitHz)) / po
		if shortfall > 0 {
			c.LowFreqPenalty = shortfall
		}
	}

	// Envelope roughness proxy: mean squared first difference.
	if len(demodulated) > 1 {
		var sum float64
		for i := 1; i < len(demodulated); i++ {
			d := demodulated[i] - demodulated[i-1]
			sum += d * d
		}
		c.DistortionPenalty = sum / float64(len(demodulated)-1)
	}

	// Frequency content introduced by boosting that did not survive
	// demodulation: mean squared spectrogram magnitude difference.
	sgBoost := ComputeSpectrogram(boosted, sampleRate, lossFFTSize, lossHop)
	c.FreqDiff = meanSquaredFrameDiff(sgDemod.Frames, sgBoost.Frames)

	c.Total = w.Waveform*c.WaveformMSE +
		w.LowFreq*c.LowFreqPenalty +
		w.Distortion*c.DistortionPenalty +
		w.FreqDiff*c.FreqDiff
	return c
}

func meanSquaredFrameDiff(a, b [][]float64) float64 {
	frames := len(a)
	if len(b) < frames {
		frames = len(b)
	}
	if frames == 0 {
		return 0
	}
	var sum float64
	var count int
	for t := 0; t < frames; t++ {
		bins := len(a[t])
		if len(b[t]) < bins {
			bins = len(b[t])
		}
		for k := 0; k < bins; k++ {
			d := a[t][k] - b[t][k]
			sum += d * d
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
