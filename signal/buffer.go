// Package signal holds the sample buffer type shared by all pipeline stages
// and the synthetic test-signal generators.
package signal

// Buffer is a mono audio buffer: real-valued samples at a fixed sample rate.
// All buffers within one pipeline run share the same sample rate; amplitudes
// are expected in [-1, 1] before modulation (callers normalize).
type Buffer struct {
	Data       []float64
	SampleRate int
}

// New creates a zeroed buffer of n samples.
func New(sampleRate int, n int) *Buffer {
	if n < 0 {
		n = 0
	}
	return &Buffer{Data: make([]float64, n), SampleRate: sampleRate}
}

// FromSamples wraps existing samples without copying.
func FromSamples(sampleRate int, data []float64) *Buffer {
	return &Buffer{Data: data, SampleRate: sampleRate}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Data: make([]float64, len(b.Data)), SampleRate: b.SampleRate}
	copy(out.Data, b.Data)
	return out
}

// Len returns the number of samples.
func (b *Buffer) Len() int { return len(b.Data) }

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Data)) / float64(b.SampleRate)
}
