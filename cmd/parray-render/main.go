package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-parray/analysis"
	"github.com/cwbudde/algo-parray/internal/fitcommon"
	"github.com/cwbudde/algo-parray/preset"
	"github.com/cwbudde/algo-parray/signal"
	"github.com/cwbudde/algo-parray/tuner"
)

func main() {
	inputPath := flag.String("input", "", "Input WAV path (empty: 30 Hz test tone)")
	presetPath := flag.String("preset", "", "Optional preset JSON path")
	sampleRate := flag.Int("sample-rate", 96000, "Pipeline sample rate")
	duration := flag.Float64("duration", 2.0, "Test tone duration in seconds")
	toneFreq := flag.Float64("tone", 30.0, "Test tone frequency in Hz")
	carrier := flag.Float64("carrier", 0, "Carrier frequency in Hz (0 uses the preset constant)")
	ampFactor := flag.Float64("amp-factor", 1.0, "Modulator amplitude factor")
	variant := flag.String("variant", tuner.VariantExtreme, "Booster variant: smooth|extreme")
	boostFactor := flag.Float64("boost", 2.0, "Boost factor")
	cutoff := flag.Float64("cutoff", 500.0, "Boost cutoff frequency in Hz")
	filterOrder := flag.Int("filter-order", 4, "Filter order (smooth variant interface)")
	outDir := flag.String("out-dir", "out/render", "Directory for output WAVs")
	flag.Parse()

	settings := preset.DefaultSettings()
	if *presetPath != "" {
		var err error
		settings, err = preset.LoadJSON(*presetPath)
		if err != nil {
			die("preset: %v", err)
		}
	}
	carrierFreq := *carrier
	if carrierFreq <= 0 {
		carrierFreq = settings.Constants.CarrierFreq
	}

	var original *signal.Buffer
	if *inputPath != "" {
		buf, err := fitcommon.ReadWAVMono(*inputPath)
		if err != nil {
			die("input: %v", err)
		}
		original, err = fitcommon.ResampleIfNeeded(buf, *sampleRate)
		if err != nil {
			die("resample: %v", err)
		}
	} else {
		original = signal.Sine(*sampleRate, *toneFreq, *duration)
	}
	fmt.Printf("Input: %d frames @ %d Hz (%.2fs)\n\n", original.Len(), original.SampleRate, original.Duration())

	pipe := tuner.Pipeline{
		Constants:   settings.Constants,
		CarrierFreq: carrierFreq,
		AmpFactor:   *ampFactor,
		Weights:     settings.Weights,
		Variant:     strings.ToLower(*variant),
	}
	par := tuner.Params{BoostFactor: *boostFactor, CutoffHz: *cutoff, FilterOrder: *filterOrder}
	boosted, modulated, demodulated := pipe.Render(original, par)

	comps := analysis.Evaluate(original.Data, demodulated.Data, boosted.Data, original.SampleRate, settings.Weights)
	fmt.Printf("Loss: total=%.6f waveform=%.6f low_freq=%.6f distortion=%.6f freq_diff=%.6f\n\n",
		comps.Total, comps.WaveformMSE, comps.LowFreqPenalty, comps.DistortionPenalty, comps.FreqDiff)

	printBandTable(original, boosted, demodulated)

	for name, buf := range map[string]*signal.Buffer{
		"original.wav":    original,
		"boosted.wav":     boosted,
		"demodulated.wav": demodulated,
	} {
		if err := fitcommon.WriteMonoWAV(filepath.Join(*outDir, name), buf); err != nil {
			die("write %s: %v", name, err)
		}
	}
	mod := modulated.Clone()
	peak := 0.0
	for _, v := range mod.Data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		for i := range mod.Data {
			mod.Data[i] /= peak
		}
	}
	if err := fitcommon.WriteMonoWAV(filepath.Join(*outDir, "modulated.wav"), mod); err != nil {
		die("write modulated.wav: %v", err)
	}
}

func printBandTable(original, boosted, demodulated *signal.Buffer) {
	type band struct {
		name string
		loHz float64
		hiHz float64
	}
	bands := []band{
		{"sub-bass (20-60Hz)", 20, 60},
		{"bass (60-150Hz)", 60, 150},
		{"low-mid (150-300Hz)", 150, 300},
		{"mid (300-1kHz)", 300, 1000},
		{"upper (1-5kHz)", 1000, 5000},
	}

	const fftSize, hop = 4096, 2048
	sgOrig := analysis.ComputeSpectrogram(original.Data, original.SampleRate, fftSize, hop)
	sgBoost := analysis.ComputeSpectrogram(boosted.Data, boosted.SampleRate, fftSize, hop)
	sgDemod := analysis.ComputeSpectrogram(demodulated.Data, demodulated.SampleRate, fftSize, hop)

	fmt.Println("--- band energy (boosted/original, demodulated/original) ---")
	for _, b := range bands {
		po := bandPower(sgOrig, b.loHz, b.hiHz)
		pb := bandPower(sgBoost, b.loHz, b.hiHz)
		pd := bandPower(sgDemod, b.loHz, b.hiHz)
		fmt.Printf("  %-22s boost=%8.3fx  demod=%8.3fx\n",
			b.name,
			analysis.ImprovementRatio(pb, po),
			analysis.ImprovementRatio(pd, po))
	}
	fmt.Println()
}

func bandPower(sg analysis.Spectrogram, loHz, hiHz float64) float64 {
	var sum float64
	for _, frame := range sg.Frames {
		for k, m := range frame {
			f := float64(k) * sg.BinHz
			if f < loHz {
				continue
			}
			if f > hiHz {
				break
			}
			sum += m * m
		}
	}
	return sum
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
