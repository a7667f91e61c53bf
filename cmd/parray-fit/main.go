package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-parray/internal/fitcommon"
	"github.com/cwbudde/algo-parray/preset"
	"github.com/cwbudde/algo-parray/signal"
	"github.com/cwbudde/algo-parray/tuner"
)

func main() {
	inputPath := flag.String("input", "", "Reference WAV path (empty: synthesize a test signal)")
	presetPath := flag.String("preset", "", "Optional preset JSON path")
	testSignal := flag.String("signal", "chop", "Synthetic signal when no input WAV: chop|multitone")
	sampleRate := flag.Int("sample-rate", 96000, "Pipeline sample rate")
	duration := flag.Float64("duration", 2.0, "Synthetic signal duration in seconds")
	carrier := flag.Float64("carrier", 0, "Carrier frequency in Hz (0 uses the preset constant)")
	ampFactor := flag.Float64("amp-factor", 1.0, "Modulator amplitude factor")
	variant := flag.String("variant", tuner.VariantExtreme, "Booster variant: smooth|extreme")
	mode := flag.String("mode", "network", "Tuning mode: network|mayfly")
	iterations := flag.Int("iterations", 0, "Training iteration budget (0 uses the preset value)")
	reportEvery := flag.Int("report-every", 10, "Log progress every N evaluations")
	seed := flag.Int64("seed", 1, "Random seed")
	learnRate := flag.Float64("learn-rate", 1e-3, "Adam step size (network mode)")
	sigma := flag.Float64("sigma", 0.5, "Exploration noise stddev (network mode)")
	mayflyVariant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	mayflyPop := flag.Int("mayfly-pop", 10, "Male and female population size (mayfly mode)")
	outDir := flag.String("out-dir", "out/fit", "Directory for output WAVs")
	reportPath := flag.String("report", "", "Report JSON path (default: <out-dir>/report.json)")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	settings := preset.DefaultSettings()
	if *presetPath != "" {
		settings, err = preset.LoadJSON(*presetPath)
		if err != nil {
			die(logger, "failed to load preset", err)
		}
	}
	if *iterations > 0 {
		settings.Iterations = *iterations
	}
	carrierFreq := *carrier
	if carrierFreq <= 0 {
		carrierFreq = settings.Constants.CarrierFreq
	}

	original, err := loadReference(*inputPath, *testSignal, *sampleRate, *duration)
	if err != nil {
		die(logger, "failed to prepare reference signal", err)
	}
	logger.Info("reference ready",
		zap.Int("samples", original.Len()),
		zap.Int("sample_rate", original.SampleRate),
		zap.Float64("seconds", original.Duration()),
	)

	pipe := tuner.Pipeline{
		Constants:   settings.Constants,
		CarrierFreq: carrierFreq,
		AmpFactor:   *ampFactor,
		Weights:     settings.Weights,
		Variant:     strings.ToLower(*variant),
	}
	objective := pipe.Objective(original)

	start := time.Now()
	var result *tuner.Result
	switch strings.ToLower(*mode) {
	case "network":
		result = tuner.Train(tuner.TrainConfig{
			Iterations:  settings.Iterations,
			ReportEvery: *reportEvery,
			Seed:        *seed,
			LearnRate:   *learnRate,
			Sigma:       *sigma,
			Bounds:      settings.Bounds,
			Logger:      logger,
		}, objective)
	case "mayfly":
		result, err = tuner.Search(tuner.SearchConfig{
			Variant:     strings.ToLower(*mayflyVariant),
			Population:  *mayflyPop,
			MaxEvals:    settings.Iterations,
			Seed:        *seed,
			ReportEvery: *reportEvery,
			Bounds:      settings.Bounds,
			Logger:      logger,
		}, objective)
		if err != nil {
			die(logger, "search failed", err)
		}
	default:
		die(logger, "invalid mode", fmt.Errorf("%q (use network or mayfly)", *mode))
	}
	elapsed := time.Since(start).Seconds()

	if err := writeOutputs(pipe, original, result, outputConfig{
		inputPath:  *inputPath,
		testSignal: *testSignal,
		mode:       strings.ToLower(*mode),
		outDir:     *outDir,
		reportPath: *reportPath,
		elapsed:    elapsed,
	}); err != nil {
		die(logger, "failed to write outputs", err)
	}

	logger.Info("done",
		zap.Int("evaluations", result.Evals),
		zap.Float64("elapsed_seconds", elapsed),
		zap.Float64("best_loss", result.BestLoss.Total),
		zap.Float64("boost_factor", result.Best.BoostFactor),
		zap.Float64("cutoff_hz", result.Best.CutoffHz),
		zap.Int("filter_order", result.Best.FilterOrder),
	)
}

// loadReference reads and conditions an external WAV, or synthesizes a test
// signal at the pipeline rate.
func loadReference(inputPath, testSignal string, sampleRate int, duration float64) (*signal.Buffer, error) {
	if inputPath != "" {
		buf, err := fitcommon.ReadWAVMono(inputPath)
		if err != nil {
			return nil, err
		}
		return fitcommon.ResampleIfNeeded(buf, sampleRate)
	}

	switch strings.ToLower(testSignal) {
	case "chop":
		return signal.GenerateChop(sampleRate, duration, 100.0, 100.0, 1000.0), nil
	case "multitone":
		freqs := []float64{50, 100, 200, 400, 800}
		return signal.GenerateMultiTone(sampleRate, freqs, duration/10.0, duration/10.0), nil
	default:
		return nil, fmt.Errorf("unknown signal %q (use chop or multitone)", testSignal)
	}
}

func die(logger *zap.Logger, msg string, err error) {
	logger.Error(msg, zap.Error(err))
	logger.Sync()
	os.Exit(1)
}
