package boost

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-parray/signal"
	"github.com/mjibson/go-dsp/fft"
)

// bandEnergy sums squared spectral magnitudes for bins between lo and hi Hz.
func bandEnergy(buf *signal.Buffer, lo, hi float64) float64 {
	spec := fft.FFTReal(buf.Data)
	binHz := float64(buf.SampleRate) / float64(buf.Len())

	var sum float64
	for k := 0; k <= buf.Len()/2; k++ {
		f := float64(k) * binHz
		if f < lo || f > hi {
			continue
		}
		mag := math.Hypot(real(spec[k]), imag(spec[k]))
		sum += mag * mag
	}
	return sum
}

func TestCurveLength(t *testing.T) {
	for _, variant := range []string{"smooth", "extreme"} {
		t.Run(variant, func(t *testing.T) {
			buf := signal.Sine(48000, 200, 0.1)
			var curve Curve
			if variant == "smooth" {
				_, curve = Smooth(buf, 2.0, 500, 4)
			} else {
				_, curve = Extreme(buf, 2.0, 500)
			}
			if want := buf.Len()/2 + 1; len(curve) != want {
				t.Fatalf("curve length = %d, want %d", len(curve), want)
			}
		})
	}
}

func TestSmoothCurveInvariants(t *testing.T) {
	const cutoff = 500.0
	buf := signal.Sine(48000, 200, 0.25)
	out, curve := Smooth(buf, 1.0, cutoff, 4)

	if out.Len() != buf.Len() {
		t.Fatalf("output length = %d, want %d", out.Len(), buf.Len())
	}

	binHz := float64(buf.SampleRate) / float64(buf.Len())
	for k, g := range curve {
		f := float64(k) * binHz
		if f >= cutoff {
			if g != 1.0 {
				t.Fatalf("bin %d (%.1f Hz) gain = %v, want exactly 1.0", k, f, g)
			}
		} else if g < 1.0 {
			t.Fatalf("bin %d (%.1f Hz) gain = %v, want >= 1.0", k, f, g)
		}
	}
}

func TestSmoothHeadroom(t *testing.T) {
	// A full-scale bass tone is boosted hard; the output must stay under 1.0.
	buf := signal.Sine(48000, 30, 0.5)
	out, _ := Smooth(buf, 3.0, 500, 4)
	peak := 0.0
	for _, v := range out.Data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 1.0 {
		t.Fatalf("peak = %v, want <= 1.0", peak)
	}
	if peak < 0.5 {
		t.Fatalf("peak = %v, headroom scaling removed too much signal", peak)
	}
}

func TestExtremeCurveInvariants(t *testing.T) {
	const cutoff = 500.0
	buf := signal.Sine(48000, 200, 0.25)
	_, curve := Extreme(buf, 2.0, cutoff)

	binHz := float64(buf.SampleRate) / float64(buf.Len())
	for k, g := range curve {
		f := float64(k) * binHz
		if f >= cutoff {
			if g != 1.0 {
				t.Fatalf("bin %d (%.1f Hz) gain = %v, want exactly 1.0", k, f, g)
			}
		} else if g < 1.0 {
			t.Fatalf("bin %d (%.1f Hz) gain = %v, want >= 1.0", k, f, g)
		}
	}
}

func TestExtremeTransitionMonotoneAtEdge(t *testing.T) {
	// The raised-cosine band must land on 1.0 at the cutoff without
	// overshooting the boost-region edge gain.
	const cutoff = 1000.0
	buf := signal.Sine(48000, 100, 0.5)
	_, curve := Extreme(buf, 2.0, cutoff)

	binHz := float64(buf.SampleRate) / float64(buf.Len())
	edgeHz := cutoff - 200.0
	edgeGain := tierMultiplier(2.0, cutoff, edgeHz)
	for k, g := range curve {
		f := float64(k) * binHz
		if f <= edgeHz || f >= cutoff {
			continue
		}
		if g > edgeGain || g < 1.0 {
			t.Fatalf("transition bin %d (%.1f Hz) gain = %v, want within [1, %v]", k, f, g, edgeGain)
		}
	}
}

func TestBoostIdentityWhenDisabled(t *testing.T) {
	buf := signal.Sine(48000, 440, 0.25)

	for _, variant := range []string{"smooth", "extreme"} {
		t.Run(variant, func(t *testing.T) {
			var out *signal.Buffer
			var curve Curve
			if variant == "smooth" {
				out, curve = Smooth(buf, 1.0, 0, 4)
			} else {
				out, curve = Extreme(buf, 1.0, 0)
			}
			for i := range buf.Data {
				if out.Data[i] != buf.Data[i] {
					t.Fatalf("sample %d changed: %v vs %v", i, out.Data[i], buf.Data[i])
				}
			}
			for k, g := range curve {
				if g != 1.0 {
					t.Fatalf("curve bin %d = %v, want identity", k, g)
				}
			}
			out.Data[0] = 42
			if buf.Data[0] == 42 {
				t.Fatal("disabled boost returned shared storage instead of a copy")
			}
		})
	}
}

func TestExtremeRaisesSubBassEnergy(t *testing.T) {
	// A 30 Hz tone pushed through the tiered boost must gain energy in the
	// 20-60 Hz band even after RMS compensation and the tanh limiter.
	buf := signal.Sine(96000, 30, 1.0)
	out, _ := Extreme(buf, 2.0, 5000)

	before := bandEnergy(buf, 20, 60)
	after := bandEnergy(out, 20, 60)
	if before <= 0 {
		t.Fatal("input band energy is zero")
	}
	if ratio := after / before; ratio <= 1.0 {
		t.Fatalf("band energy ratio = %v, want > 1.0", ratio)
	}
}

func TestExtremeSilencePassThrough(t *testing.T) {
	buf := signal.New(48000, 4800)
	out, _ := Extreme(buf, 2.0, 500)
	for i, v := range out.Data {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestFastDecayBounds(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
		tol  float64
	}{
		{x: 0, want: 1, tol: 0.05},
		{x: -1, want: math.Exp(-1), tol: 0.05},
		{x: -100, want: 0, tol: 0},
	}
	for _, tt := range tests {
		if got := fastDecay(tt.x); math.Abs(got-tt.want) > tt.tol {
			t.Fatalf("fastDecay(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}
