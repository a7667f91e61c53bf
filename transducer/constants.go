// Package transducer models the parametric-array transducer chain: amplitude
// modulation onto an ultrasonic carrier and the Berktay-model demodulation
// that air performs on the propagating beam.
package transducer

import "fmt"

// Constants holds the physical configuration shared by the modulator and
// demodulator. It is read-only during a run.
type Constants struct {
	PrimaryAmplitude float64 // P0, primary pressure amplitude in Pa
	ModulationIndex  float64 // m, 0..1
	SourceRadius     float64 // radiating element radius in m
	Nonlinearity     float64 // beta, air nonlinearity coefficient
	AirDensity       float64 // rho0 in kg/m^3
	SoundSpeed       float64 // c0 in m/s
	Absorption       float64 // alpha in Np/m at the carrier frequency
	Distance         float64 // z, listener distance in m
	CarrierFreq      float64 // carrier frequency in Hz
}

// DefaultConstants returns the configuration of a typical 40 kHz
// parametric emitter heard at one meter.
func DefaultConstants() Constants {
	return Constants{
		PrimaryAmplitude: 120.0,
		ModulationIndex:  0.8,
		SourceRadius:     0.085,
		Nonlinearity:     1.2,
		AirDensity:       1.21,
		SoundSpeed:       343.0,
		Absorption:       0.12,
		Distance:         1.0,
		CarrierFreq:      40000.0,
	}
}

func (c *Constants) Validate() error {
	if c.PrimaryAmplitude <= 0 {
		return fmt.Errorf("primary amplitude must be > 0")
	}
	if c.ModulationIndex < 0 || c.ModulationIndex > 1 {
		return fmt.Errorf("modulation index must be in [0,1]")
	}
	if c.SourceRadius <= 0 {
		return fmt.Errorf("source radius must be > 0")
	}
	if c.Nonlinearity <= 0 {
		return fmt.Errorf("nonlinearity coefficient must be > 0")
	}
	if c.AirDensity <= 0 {
		return fmt.Errorf("air density must be > 0")
	}
	if c.SoundSpeed <= 0 {
		return fmt.Errorf("sound speed must be > 0")
	}
	if c.Absorption < 0 {
		return fmt.Errorf("absorption must be >= 0")
	}
	if c.Distance <= 0 {
		return fmt.Errorf("distance must be > 0")
	}
	if c.CarrierFreq <= 0 {
		return fmt.Errorf("carrier frequency must be > 0")
	}
	return nil
}

// berktayScale is the closed-form demodulation constant:
// beta P0^2 a^2 / (16 rho0 c0^4 z).
func (c *Constants) berktayScale() float64 {
	c4 := c.SoundSpeed * c.SoundSpeed * c.SoundSpeed * c.SoundSpeed
	return c.Nonlinearity * c.PrimaryAmplitude * c.PrimaryAmplitude *
		c.SourceRadius * c.SourceRadius / (16.0 * c.AirDensity * c4 * c.Distance)
}
