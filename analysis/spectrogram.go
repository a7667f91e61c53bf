// Package analysis scores a boosted candidate after a full
// modulate->demodulate pass against the original signal.
package analysis

import (
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// Spectrogram holds STFT magnitude frames: Frames[t][k] is the magnitude of
// frequency bin k in time frame t.
type Spectrogram struct {
	Frames [][]float64
	BinHz  float64
}

// ComputeSpectrogram computes Hann-windowed STFT magnitudes. Signals shorter
// than fftSize produce a single zero-padded frame; an empty signal (or an
// FFT plan failure) degrades to an empty spectrogram, never an error.
func ComputeSpectrogram(x []float64, sampleRate, fftSize, hop int) Spectrogram {
	sg := Spectrogram{BinHz: float64(sampleRate) / float64(fftSize)}
	if len(x) == 0 || fftSize < 2 || hop < 1 {
		return sg
	}

	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return sg
	}

	hann := make([]float64, fftSize)
	for i := range hann {
		hann[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
	}

	nBins := fftSize/2 + 1
	spec := make([]complex128, nBins)
	buf := make([]float64, fftSize)

	emit := func(start int) {
		for i := 0; i < fftSize; i++ {
			if start+i < len(x) {
				buf[i] = x[start+i] * hann[i]
			} else {
				buf[i] = 0
			}
		}
		plan.Forward(spec, buf)
		frame := make([]float64, nBins)
		for k := range frame {
			frame[k] = cmplx.Abs(spec[k])
		}
		sg.Frames = append(sg.Frames, frame)
	}

	if len(x) < fftSize {
		emit(0)
		return sg
	}
	for pos := 0; pos+fftSize <= len(x); pos += hop {
		emit(pos)
	}
	return sg
}

// PowerBelow sums squared magnitudes of all bins below limitHz across all
// frames.
func (s Spectrogram) PowerBelow(limitHz float64) float64 {
	var sum float64
	for _, frame := range s.Frames {
		for k, m := range frame {
			if float64(k)*s.BinHz >= limitHz {
				break
			}
			sum += m * m
		}
	}
	return sum
}

// ImprovementRatio reports after/before for diagnostics; a zero baseline
// yields +Inf rather than failing.
func ImprovementRatio(after, before float64) float64 {
	if before == 0 {
		return math.Inf(1)
	}
	return after / before
}
