package signal

import (
	"math"
	"testing"
)

func maxAbs(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func TestGenerateChop(t *testing.T) {
	const sampleRate = 48000
	buf := GenerateChop(sampleRate, 0.5, 100, 100, 1000)

	if buf.SampleRate != sampleRate {
		t.Fatalf("sample rate = %d, want %d", buf.SampleRate, sampleRate)
	}
	if want := sampleRate / 2; buf.Len() != want {
		t.Fatalf("length = %d, want %d", buf.Len(), want)
	}
	if got := maxAbs(buf.Data); got != 1.0 {
		t.Fatalf("peak = %v, want exactly 1.0", got)
	}
}

func TestGenerateChopDeterministic(t *testing.T) {
	a := GenerateChop(48000, 0.2, 100, 100, 1000)
	b := GenerateChop(48000, 0.2, 100, 100, 1000)
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, a.Data[i], b.Data[i])
		}
	}
}

func TestGenerateChopDegenerateArgs(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		step     float64
		minFreq  float64
		maxFreq  float64
	}{
		{name: "zero duration", duration: 0, step: 100, minFreq: 100, maxFreq: 1000},
		{name: "zero step", duration: 0.1, step: 0, minFreq: 100, maxFreq: 1000},
		{name: "inverted range", duration: 0.1, step: 100, minFreq: 1000, maxFreq: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := GenerateChop(48000, tt.duration, tt.step, tt.minFreq, tt.maxFreq)
			if got := maxAbs(buf.Data); got != 0 {
				t.Fatalf("peak = %v, want 0", got)
			}
		})
	}
}

func TestGenerateMultiTone(t *testing.T) {
	const sampleRate = 48000
	freqs := []float64{100, 200, 400}
	buf := GenerateMultiTone(sampleRate, freqs, 0.1, 0.05)

	toneN := 4800
	gapN := 2400
	if want := len(freqs) * (toneN + gapN); buf.Len() != want {
		t.Fatalf("length = %d, want %d", buf.Len(), want)
	}

	// Every gap region must be silent.
	for seg := range freqs {
		start := seg*(toneN+gapN) + toneN
		for i := start; i < start+gapN; i++ {
			if buf.Data[i] != 0 {
				t.Fatalf("gap sample %d = %v, want 0", i, buf.Data[i])
			}
		}
	}

	// Tone regions carry signal.
	for seg := range freqs {
		start := seg * (toneN + gapN)
		if got := maxAbs(buf.Data[start : start+toneN]); got < 0.9 {
			t.Fatalf("tone %d peak = %v, want >= 0.9", seg, got)
		}
	}
}

func TestSine(t *testing.T) {
	buf := Sine(48000, 440, 1.0)
	if buf.Len() != 48000 {
		t.Fatalf("length = %d, want 48000", buf.Len())
	}
	if buf.Data[0] != 0 {
		t.Fatalf("first sample = %v, want 0", buf.Data[0])
	}
	if got := maxAbs(buf.Data); got < 0.999 || got > 1.0 {
		t.Fatalf("peak = %v, want within (0.999, 1.0]", got)
	}
}

func TestBufferCloneIndependent(t *testing.T) {
	a := Sine(8000, 100, 0.1)
	b := a.Clone()
	b.Data[0] = 42
	if a.Data[0] == 42 {
		t.Fatal("Clone shares backing storage with original")
	}
	if got, want := a.Duration(), 0.1; math.Abs(got-want) > 1e-9 {
		t.Fatalf("Duration = %v, want %v", got, want)
	}
}
