// Package preset loads and saves run configuration as JSON, applying partial
// overrides on top of defaults.
package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-parray/analysis"
	"github.com/cwbudde/algo-parray/transducer"
	"github.com/cwbudde/algo-parray/tuner"
)

// Settings aggregates everything a run needs beyond command-line flags.
type Settings struct {
	Constants  transducer.Constants
	Weights    analysis.Weights
	Bounds     tuner.Bounds
	Iterations int
}

// DefaultSettings returns the standard configuration.
func DefaultSettings() *Settings {
	return &Settings{
		Constants:  transducer.DefaultConstants(),
		Weights:    analysis.DefaultWeights(),
		Bounds:     tuner.DefaultBounds(),
		Iterations: 200,
	}
}

// File is the JSON schema for run presets. Absent fields keep their
// defaults.
type File struct {
	PrimaryAmplitude *float64 `json:"primary_amplitude"`
	ModulationIndex  *float64 `json:"modulation_index"`
	SourceRadius     *float64 `json:"source_radius"`
	Nonlinearity     *float64 `json:"nonlinearity"`
	AirDensity       *float64 `json:"air_density"`
	SoundSpeed       *float64 `json:"sound_speed"`
	Absorption       *float64 `json:"absorption"`
	Distance         *float64 `json:"distance"`
	CarrierFreq      *float64 `json:"carrier_freq"`

	LossWeights *analysis.Weights `json:"loss_weights"`
	Bounds      *tuner.Bounds     `json:"bounds"`
	Iterations  *int              `json:"iterations"`
}

// LoadJSON loads a preset JSON file and applies it on top of defaults.
func LoadJSON(path string) (*Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	s := DefaultSettings()
	if err := ApplyFile(s, &f); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyFile applies a parsed preset file onto existing settings.
func ApplyFile(dst *Settings, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination settings")
	}
	if f == nil {
		return nil
	}

	set := func(field *float64, v *float64) {
		if v != nil {
			*field = *v
		}
	}
	set(&dst.Constants.PrimaryAmplitude, f.PrimaryAmplitude)
	set(&dst.Constants.ModulationIndex, f.ModulationIndex)
	set(&dst.Constants.SourceRadius, f.SourceRadius)
	set(&dst.Constants.Nonlinearity, f.Nonlinearity)
	set(&dst.Constants.AirDensity, f.AirDensity)
	set(&dst.Constants.SoundSpeed, f.SoundSpeed)
	set(&dst.Constants.Absorption, f.Absorption)
	set(&dst.Constants.Distance, f.Distance)
	set(&dst.Constants.CarrierFreq, f.CarrierFreq)
	if err := dst.Constants.Validate(); err != nil {
		return fmt.Errorf("physical constants: %w", err)
	}

	if f.LossWeights != nil {
		w := *f.LossWeights
		if w.Waveform < 0 || w.LowFreq < 0 || w.Distortion < 0 || w.FreqDiff < 0 {
			return fmt.Errorf("loss weights must be >= 0")
		}
		dst.Weights = w
	}
	if f.Bounds != nil {
		b := *f.Bounds
		if err := b.Validate(); err != nil {
			return fmt.Errorf("bounds: %w", err)
		}
		dst.Bounds = b
	}
	if f.Iterations != nil {
		if *f.Iterations < 1 {
			return fmt.Errorf("iterations must be >= 1")
		}
		dst.Iterations = *f.Iterations
	}
	return nil
}

// SaveJSON writes the settings back out as a fully populated preset file.
func SaveJSON(path string, s *Settings) error {
	f := File{
		PrimaryAmplitude: &s.Constants.PrimaryAmplitude,
		ModulationIndex:  &s.Constants.ModulationIndex,
		SourceRadius:     &s.Constants.SourceRadius,
		Nonlinearity:     &s.Constants.Nonlinearity,
		AirDensity:       &s.Constants.AirDensity,
		SoundSpeed:       &s.Constants.SoundSpeed,
		Absorption:       &s.Constants.Absorption,
		Distance:         &s.Constants.Distance,
		CarrierFreq:      &s.Constants.CarrierFreq,
		LossWeights:      &s.Weights,
		Bounds:           &s.Bounds,
		Iterations:       &s.Iterations,
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}
