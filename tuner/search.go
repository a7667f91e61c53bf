package tuner

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/mayfly"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-parray/internal/fitcommon"
)

// SearchConfig controls the mayfly black-box search over the parameter box.
type SearchConfig struct {
	Variant     string // ma|desma|olce|eobbma|gsasma|mpma|aoblmoa
	Population  int    // male and female population size
	MaxEvals    int    // objective evaluation budget
	Seed        int64
	ReportEvery int
	Bounds      Bounds
	Logger      *zap.Logger
}

// Search treats the tuner as a black-box parameter search guided only by the
// scalar loss: a single mayfly run over normalized [0,1]^3 positions mapped
// into the bounds.
func Search(cfg SearchConfig, eval Objective) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pop := cfg.Population
	if pop < 2 {
		pop = 2
	}
	maxEvals := cfg.MaxEvals
	if maxEvals < 1 {
		maxEvals = 1
	}

	mc, err := newMayflyConfig(cfg.Variant, pop, numOutputs, fitcommon.MaxInt(1, maxEvals/(2*pop)))
	if err != nil {
		return nil, err
	}
	mc.Rand = rand.New(rand.NewSource(cfg.Seed))

	res := &Result{}
	haveBest := false
	mc.ObjectiveFunc = func(pos []float64) float64 {
		if res.Evals >= maxEvals {
			return res.BestLoss.Total + 1.0
		}
		par := cfg.Bounds.FromNormalized(pos)
		comps := eval(par)
		res.History = append(res.History, comps)
		res.Evals++

		if !haveBest || comps.Total < res.BestLoss.Total {
			res.Best = par
			res.BestLoss = comps
			haveBest = true
		}
		if cfg.ReportEvery > 0 && res.Evals%cfg.ReportEvery == 0 {
			logger.Info("search progress",
				zap.Int("evaluation", res.Evals),
				zap.Int("budget", maxEvals),
				zap.Float64("loss", comps.Total),
				zap.Float64("best", res.BestLoss.Total),
			)
		}
		return comps.Total
	}

	if _, err := runMayfly(mc); err != nil {
		return nil, err
	}
	res.Final = res.Best
	return res, nil
}

func newMayflyConfig(variant string, pop, dims, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = fitcommon.MaxInt(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}
