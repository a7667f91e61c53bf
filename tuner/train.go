package tuner

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-parray/analysis"
)

// TrainConfig controls the network training loop.
type TrainConfig struct {
	Iterations  int
	ReportEvery int     // progress log cadence; 0 disables
	Seed        int64   // seeds the injectable generator
	LearnRate   float64 // Adam step size; 0 uses 1e-3
	Sigma       float64 // exploration noise stddev; 0 uses 0.5
	Bounds      Bounds
	Logger      *zap.Logger
}

// Result is the outcome of a Train or Search run. History holds one
// Components record per evaluation, append-only, in order.
type Result struct {
	Best     Params               `json:"best"`
	BestLoss analysis.Components  `json:"best_loss"`
	Final    Params               `json:"final"`
	History  []analysis.Components `json:"history"`
	Evals    int                  `json:"evaluations"`
}

// Train runs the fixed-budget loop: Sample -> Forward -> Apply -> Score ->
// Update. Strictly sequential; each evaluation completes before the next
// sample is drawn. There is no convergence test.
//
// The score feeds the optimizer step through a REINFORCE-style estimator:
// Gaussian noise perturbs the raw network outputs, and the advantage over a
// running baseline scales the noise direction into an output-side gradient
// for Adam.
func Train(cfg TrainConfig, eval Objective) *Result {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	learnRate := cfg.LearnRate
	if learnRate <= 0 {
		learnRate = 1e-3
	}
	sigma := cfg.Sigma
	if sigma <= 0 {
		sigma = 0.5
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	net := NewNetwork(rng)

	res := &Result{History: make([]analysis.Components, 0, cfg.Iterations)}
	baseline := 0.0
	haveBest := false

	for it := 1; it <= cfg.Iterations; it++ {
		// Sample a random input and perturb the raw outputs.
		x := make([]float64, numInputs)
		for i := range x {
			x[i] = rng.Float64()*2.0 - 1.0
		}
		noise := make([]float64, numOutputs)
		for i := range noise {
			noise[i] = rng.NormFloat64() * sigma
		}

		raw, fs := net.Propose(x, noise)
		par := cfg.Bounds.FromRaw(raw)
		comps := eval(par)
		res.History = append(res.History, comps)
		res.Evals++

		if !haveBest || comps.Total < res.BestLoss.Total {
			res.Best = par
			res.BestLoss = comps
			haveBest = true
		}

		if it == 1 {
			baseline = comps.Total
		}
		advantage := comps.Total - baseline
		baseline = 0.9*baseline + 0.1*comps.Total

		gOut := make([]float64, numOutputs)
		for j := range gOut {
			gOut[j] = advantage * noise[j] / (sigma * sigma)
		}
		net.Update(fs, gOut, learnRate)

		if cfg.ReportEvery > 0 && it%cfg.ReportEvery == 0 {
			logger.Info("training progress",
				zap.Int("iteration", it),
				zap.Int("total", cfg.Iterations),
				zap.Float64("loss", comps.Total),
				zap.Float64("best", res.BestLoss.Total),
			)
		}
	}

	// Deterministic final proposal: no exploration noise.
	raw, _ := net.Propose(make([]float64, numInputs), nil)
	res.Final = cfg.Bounds.FromRaw(raw)
	if !haveBest {
		res.Best = res.Final
	}
	return res
}
