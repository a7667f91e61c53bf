package signal

import (
	"math"

	"github.com/cwbudde/algo-parray/dsp"
)

// GenerateChop sums sine tones at each frequency in [minFreq, maxFreq]
// stepped by step. Each tone is gated on and off by the parity of
// floor(t*freq), producing alternating one-phase-unit bursts. The result is
// peak-normalized to amplitude 1.
func GenerateChop(sampleRate int, duration, step, minFreq, maxFreq float64) *Buffer {
	n := int(math.Round(duration * float64(sampleRate)))
	out := New(sampleRate, n)
	if n == 0 || step <= 0 || minFreq > maxFreq {
		return out
	}

	for freq := minFreq; freq <= maxFreq; freq += step {
		w := 2.0 * math.Pi * freq
		for i := 0; i < n; i++ {
			t := float64(i) / float64(sampleRate)
			if int(math.Floor(t*freq))%2 == 0 {
				out.Data[i] += math.Sin(w * t)
			}
		}
	}

	dsp.NormalizePeak(out.Data)
	return out
}

// GenerateMultiTone concatenates, for each frequency, a full-amplitude sine
// tone of toneDuration followed by a silent gap of gapDuration.
func GenerateMultiTone(sampleRate int, frequencies []float64, toneDuration, gapDuration float64) *Buffer {
	toneN := int(math.Round(toneDuration * float64(sampleRate)))
	gapN := int(math.Round(gapDuration * float64(sampleRate)))
	if toneN < 0 {
		toneN = 0
	}
	if gapN < 0 {
		gapN = 0
	}

	out := New(sampleRate, len(frequencies)*(toneN+gapN))
	pos := 0
	for _, freq := range frequencies {
		w := 2.0 * math.Pi * freq
		for i := 0; i < toneN; i++ {
			t := float64(i) / float64(sampleRate)
			out.Data[pos+i] = math.Sin(w * t)
		}
		pos += toneN + gapN // gap samples stay zero
	}
	return out
}

// Sine generates a plain sine tone, used as a pipeline test fixture.
func Sine(sampleRate int, freq, duration float64) *Buffer {
	n := int(math.Round(duration * float64(sampleRate)))
	out := New(sampleRate, n)
	w := 2.0 * math.Pi * freq
	for i := 0; i < n; i++ {
		out.Data[i] = math.Sin(w * float64(i) / float64(sampleRate))
	}
	return out
}
