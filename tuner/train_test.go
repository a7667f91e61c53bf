package tuner

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-parray/analysis"
)

// quadraticObjective is a cheap stand-in for the render pipeline with a
// minimum at boost 2, cutoff 300 Hz.
func quadraticObjective(p Params) analysis.Components {
	db := p.BoostFactor - 2.0
	dc := (p.CutoffHz - 300.0) / 100.0
	total := db*db + dc*dc
	return analysis.Components{WaveformMSE: total, Total: total}
}

func TestTrainFixedBudget(t *testing.T) {
	cfg := TrainConfig{
		Iterations: 10,
		Seed:       1,
		Bounds:     DefaultBounds(),
	}
	res := Train(cfg, quadraticObjective)

	if res.Evals != 10 {
		t.Fatalf("Evals = %d, want exactly 10", res.Evals)
	}
	if len(res.History) != 10 {
		t.Fatalf("History length = %d, want 10", len(res.History))
	}
	if !cfg.Bounds.Contains(res.Best) {
		t.Fatalf("Best %+v outside bounds", res.Best)
	}
	if !cfg.Bounds.Contains(res.Final) {
		t.Fatalf("Final %+v outside bounds", res.Final)
	}

	// Best must match the minimum recorded in the history.
	minTotal := math.Inf(1)
	for _, c := range res.History {
		if c.Total < minTotal {
			minTotal = c.Total
		}
	}
	if res.BestLoss.Total != minTotal {
		t.Fatalf("BestLoss.Total = %v, want history minimum %v", res.BestLoss.Total, minTotal)
	}
}

func TestTrainDeterministicForSeed(t *testing.T) {
	cfg := TrainConfig{Iterations: 5, Seed: 42, Bounds: DefaultBounds()}
	a := Train(cfg, quadraticObjective)
	b := Train(cfg, quadraticObjective)

	if a.Best != b.Best || a.Final != b.Final {
		t.Fatalf("same seed produced different results: %+v vs %+v", a, b)
	}
	for i := range a.History {
		if a.History[i].Total != b.History[i].Total {
			t.Fatalf("history diverges at evaluation %d", i)
		}
	}
}

func TestTrainZeroIterations(t *testing.T) {
	cfg := TrainConfig{Iterations: 0, Seed: 1, Bounds: DefaultBounds()}
	res := Train(cfg, quadraticObjective)

	if res.Evals != 0 || len(res.History) != 0 {
		t.Fatalf("zero-iteration run evaluated: %+v", res)
	}
	// Best falls back to the untrained network's proposal, still in bounds.
	if !cfg.Bounds.Contains(res.Best) {
		t.Fatalf("Best %+v outside bounds", res.Best)
	}
}

func TestNetworkProposeShapes(t *testing.T) {
	net := NewNetwork(rand.New(rand.NewSource(7)))

	raw, fs := net.Propose([]float64{0.1, -0.2, 0.3}, nil)
	if len(raw) != 3 {
		t.Fatalf("raw output length = %d, want 3", len(raw))
	}
	if fs == nil {
		t.Fatal("forward state is nil")
	}
	for _, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("raw output %v is not finite", v)
		}
	}

	// Noise shifts the returned outputs one for one.
	noise := []float64{0.5, -0.5, 0.25}
	noisy, _ := net.Propose([]float64{0.1, -0.2, 0.3}, noise)
	for j := range raw {
		if math.Abs(noisy[j]-(raw[j]+noise[j])) > 1e-12 {
			t.Fatalf("output %d = %v, want %v", j, noisy[j], raw[j]+noise[j])
		}
	}
}

func TestNetworkUpdateMovesOutput(t *testing.T) {
	net := NewNetwork(rand.New(rand.NewSource(7)))
	x := []float64{0.1, -0.2, 0.3}

	before, fs := net.Propose(x, nil)
	net.Update(fs, []float64{1, 1, 1}, 0.1)
	after, _ := net.Propose(x, nil)

	moved := false
	for j := range before {
		if before[j] != after[j] {
			moved = true
		}
		if math.IsNaN(after[j]) || math.IsInf(after[j], 0) {
			t.Fatalf("output %d = %v after update, want finite", j, after[j])
		}
	}
	if !moved {
		t.Fatal("update left the network output unchanged")
	}
}
