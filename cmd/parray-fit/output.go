package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-parray/analysis"
	"github.com/cwbudde/algo-parray/dsp"
	"github.com/cwbudde/algo-parray/internal/fitcommon"
	"github.com/cwbudde/algo-parray/signal"
	"github.com/cwbudde/algo-parray/tuner"
)

type outputConfig struct {
	inputPath  string
	testSignal string
	mode       string
	outDir     string
	reportPath string
	elapsed    float64
}

type runReport struct {
	InputPath      string                `json:"input_path,omitempty"`
	TestSignal     string                `json:"test_signal,omitempty"`
	Mode           string                `json:"mode"`
	SampleRate     int                   `json:"sample_rate"`
	CarrierFreq    float64               `json:"carrier_freq"`
	Variant        string                `json:"variant"`
	ElapsedSeconds float64               `json:"elapsed_seconds"`
	Evaluations    int                   `json:"evaluations"`
	BestParams     tuner.Params          `json:"best_params"`
	BestLoss       analysis.Components   `json:"best_loss"`
	FinalParams    tuner.Params          `json:"final_params"`
	History        []analysis.Components `json:"history"`
}

// writeOutputs renders the chain once with the best parameters, writes the
// four stage WAVs, and saves the JSON report with the full training history.
func writeOutputs(pipe tuner.Pipeline, original *signal.Buffer, result *tuner.Result, cfg outputConfig) error {
	boosted, modulated, demodulated := pipe.Render(original, result.Best)

	stages := []struct {
		name string
		buf  *signal.Buffer
	}{
		{"original.wav", original},
		{"boosted.wav", boosted},
		{"modulated.wav", normalizedCopy(modulated)},
		{"demodulated.wav", demodulated},
	}
	for _, s := range stages {
		if err := fitcommon.WriteMonoWAV(filepath.Join(cfg.outDir, s.name), s.buf); err != nil {
			return err
		}
	}

	rep := runReport{
		InputPath:      cfg.inputPath,
		TestSignal:     cfg.testSignal,
		Mode:           cfg.mode,
		SampleRate:     original.SampleRate,
		CarrierFreq:    pipe.CarrierFreq,
		Variant:        pipe.Variant,
		ElapsedSeconds: cfg.elapsed,
		Evaluations:    result.Evals,
		BestParams:     result.Best,
		BestLoss:       result.BestLoss,
		FinalParams:    result.Final,
		History:        result.History,
	}
	reportPath := cfg.reportPath
	if reportPath == "" {
		reportPath = filepath.Join(cfg.outDir, "report.json")
	}
	return writeJSON(reportPath, rep)
}

// normalizedCopy scales the carrier-band pressure signal into [-1, 1] for
// WAV output; the raw buffer is in pascals.
func normalizedCopy(buf *signal.Buffer) *signal.Buffer {
	out := buf.Clone()
	dsp.NormalizePeak(out.Data)
	return out
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}
