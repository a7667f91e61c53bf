package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-parray/analysis"
	"github.com/cwbudde/algo-parray/signal"
	"github.com/cwbudde/algo-parray/transducer"
	"github.com/cwbudde/algo-parray/tuner"
)

func TestLoadReferenceTestSignals(t *testing.T) {
	tests := []struct {
		name    string
		signal  string
		wantErr bool
	}{
		{name: "chop", signal: "chop"},
		{name: "multitone", signal: "multitone"},
		{name: "mixed case", signal: "Chop"},
		{name: "unknown", signal: "noise", wantErr: true},
		{name: "empty", signal: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := loadReference("", tt.signal, 48000, 0.5)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("loadReference(%q) expected error", tt.signal)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadReference(%q): %v", tt.signal, err)
			}
			if buf.Len() == 0 {
				t.Fatal("empty reference buffer")
			}
			if buf.SampleRate != 48000 {
				t.Fatalf("sample rate = %d, want 48000", buf.SampleRate)
			}
		})
	}
}

func TestLoadReferenceMissingWAV(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.wav")
	if _, err := loadReference(missing, "chop", 48000, 0.5); err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestWriteOutputs(t *testing.T) {
	c := transducer.DefaultConstants()
	pipe := tuner.Pipeline{
		Constants:   c,
		CarrierFreq: c.CarrierFreq,
		AmpFactor:   1.0,
		Weights:     analysis.DefaultWeights(),
		Variant:     tuner.VariantExtreme,
	}
	original := signal.Sine(96000, 150, 0.1)
	result := &tuner.Result{
		Best:    tuner.Params{BoostFactor: 2, CutoffHz: 500, FilterOrder: 4},
		Final:   tuner.Params{BoostFactor: 2, CutoffHz: 500, FilterOrder: 4},
		History: []analysis.Components{{Total: 1.5}},
		Evals:   1,
	}

	outDir := t.TempDir()
	cfg := outputConfig{
		testSignal: "chop",
		mode:       "network",
		outDir:     outDir,
		elapsed:    0.25,
	}
	if err := writeOutputs(pipe, original, result, cfg); err != nil {
		t.Fatalf("writeOutputs: %v", err)
	}

	for _, name := range []string{"original.wav", "boosted.wav", "modulated.wav", "demodulated.wav"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing stage file %s: %v", name, err)
		}
	}

	b, err := os.ReadFile(filepath.Join(outDir, "report.json"))
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var rep runReport
	if err := json.Unmarshal(b, &rep); err != nil {
		t.Fatalf("parsing report: %v", err)
	}
	if rep.Mode != "network" || rep.Variant != tuner.VariantExtreme {
		t.Fatalf("report header = %q/%q, want network/extreme", rep.Mode, rep.Variant)
	}
	if rep.Evaluations != 1 || len(rep.History) != 1 {
		t.Fatalf("report evaluations = %d, history = %d, want 1/1", rep.Evaluations, len(rep.History))
	}
	if rep.BestParams != result.Best {
		t.Fatalf("report best params = %+v, want %+v", rep.BestParams, result.Best)
	}
}
