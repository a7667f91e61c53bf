package dsp

import "math"

// Biquad implements a second-order IIR filter section (no heap allocations in Process)
type Biquad struct {
	// Coefficients
	b0, b1, b2 float64
	a1, a2     float64

	// State (previous samples)
	x1, x2 float64 // input history
	y1, y2 float64 // output history
}

// NewBiquad creates a new biquad filter with the given coefficients
func NewBiquad(b0, b1, b2, a1, a2 float64) *Biquad {
	return &Biquad{
		b0: b0,
		b1: b1,
		b2: b2,
		a1: a1,
		a2: a2,
	}
}

// Process processes one sample through the biquad filter
func (b *Biquad) Process(input float64) float64 {
	// Direct Form I implementation
	output := b.b0*input + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2

	// Update state
	b.x2 = b.x1
	b.x1 = input
	b.y2 = b.y1
	b.y1 = output

	return output
}

// Reset clears the filter state
func (b *Biquad) Reset() {
	b.x1, b.x2 = 0, 0
	b.y1, b.y2 = 0, 0
}

// Prime sets the filter state to the steady-state response for a constant
// input x0, suppressing the startup transient.
func (b *Biquad) Prime(x0 float64) {
	gain := (b.b0 + b.b1 + b.b2) / (1.0 + b.a1 + b.a2)
	b.x1, b.x2 = x0, x0
	b.y1, b.y2 = x0*gain, x0*gain
}

// NewLowpass creates a lowpass biquad filter (RBJ cookbook coefficients)
func NewLowpass(cutoff, sampleRate, q float64) *Biquad {
	w0 := 2.0 * math.Pi * cutoff / sampleRate
	alpha := math.Sin(w0) / (2.0 * q)
	cosw0 := math.Cos(w0)

	b0 := (1.0 - cosw0) / 2.0
	b1 := 1.0 - cosw0
	b2 := (1.0 - cosw0) / 2.0
	a0 := 1.0 + alpha
	a1 := -2.0 * cosw0
	a2 := 1.0 - alpha

	// Normalize by a0
	return NewBiquad(b0/a0, b1/a0, b2/a0, a1/a0, a2/a0)
}

// ButterworthLowpass creates a cascade of biquad sections realizing an
// even-order Butterworth lowpass. Section Q values place the poles on the
// Butterworth circle: Q_i = 1/(2 cos(theta_i)), theta_i = pi(2i+1)/(2 order).
func ButterworthLowpass(cutoff, sampleRate float64, order int) []*Biquad {
	if order < 2 {
		order = 2
	}
	if order%2 != 0 {
		order++
	}
	nyquist := 0.5 * sampleRate
	if cutoff >= nyquist {
		cutoff = 0.499 * sampleRate
	}
	if cutoff <= 0 {
		cutoff = 1.0
	}

	sections := make([]*Biquad, order/2)
	for i := range sections {
		theta := math.Pi * float64(2*i+1) / float64(2*order)
		q := 1.0 / (2.0 * math.Cos(theta))
		sections[i] = NewLowpass(cutoff, sampleRate, q)
	}
	return sections
}

// FiltFilt applies the cascade forward then backward, cancelling the phase
// delay. Requires the whole signal in memory; each pass primes the filter
// state on the first sample so constant signals pass through unchanged.
func FiltFilt(sections []*Biquad, x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	if len(out) == 0 || len(sections) == 0 {
		return out
	}

	runPass := func(buf []float64) {
		for _, s := range sections {
			s.Prime(buf[0])
			for i := range buf {
				buf[i] = s.Process(buf[i])
			}
		}
	}

	runPass(out)
	reverse(out)
	runPass(out)
	reverse(out)
	return out
}

// LowpassZeroPhase is the one-call form: Butterworth cascade + FiltFilt.
func LowpassZeroPhase(x []float64, cutoff, sampleRate float64, order int) []float64 {
	return FiltFilt(ButterworthLowpass(cutoff, sampleRate, order), x)
}

// SecondDerivative returns the discrete second time-derivative of x sampled
// at sampleRate. Interior points use central differences; the two boundary
// samples use one-sided second-order differences.
func SecondDerivative(x []float64, sampleRate float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n < 4 || sampleRate <= 0 {
		return out
	}
	invDt2 := sampleRate * sampleRate

	out[0] = (2.0*x[0] - 5.0*x[1] + 4.0*x[2] - x[3]) * invDt2
	for i := 1; i < n-1; i++ {
		out[i] = (x[i-1] - 2.0*x[i] + x[i+1]) * invDt2
	}
	out[n-1] = (2.0*x[n-1] - 5.0*x[n-2] + 4.0*x[n-3] - x[n-4]) * invDt2
	return out
}

// MaxAbs returns the peak absolute amplitude of x (0 for empty input).
func MaxAbs(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		a := math.Abs(v)
		if a > m {
			m = a
		}
	}
	return m
}

// RMS returns the root-mean-square amplitude of x (0 for empty input).
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// NormalizePeak scales x in place so its peak is 1.0. Silent buffers are
// left untouched.
func NormalizePeak(x []float64) {
	peak := MaxAbs(x)
	if peak <= 0 {
		return
	}
	inv := 1.0 / peak
	for i := range x {
		x[i] *= inv
	}
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
