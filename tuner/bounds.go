// Package tuner searches for boosting parameters that minimize the
// round-trip loss, either with a small feed-forward approximator updated by
// a first-order stochastic optimizer or with a mayfly black-box search.
package tuner

import (
	"fmt"
	"math"
)

// Params are the boosting parameters a candidate proposes.
type Params struct {
	BoostFactor float64 `json:"boost_factor"`
	CutoffHz    float64 `json:"cutoff_hz"`
	FilterOrder int     `json:"filter_order"`
}

// Bounds are the closed parameter ranges candidates are mapped into.
type Bounds struct {
	BoostMin  float64 `json:"boost_min"`
	BoostMax  float64 `json:"boost_max"`
	CutoffMin float64 `json:"cutoff_min"`
	CutoffMax float64 `json:"cutoff_max"`
	OrderMin  int     `json:"order_min"`
	OrderMax  int     `json:"order_max"`
}

// DefaultBounds returns the standard search box [1,5] x [100,1000] x [1,10].
func DefaultBounds() Bounds {
	return Bounds{
		BoostMin:  1.0,
		BoostMax:  5.0,
		CutoffMin: 100.0,
		CutoffMax: 1000.0,
		OrderMin:  1,
		OrderMax:  10,
	}
}

func (b *Bounds) Validate() error {
	if b.BoostMin > b.BoostMax {
		return fmt.Errorf("boost bounds inverted: [%g, %g]", b.BoostMin, b.BoostMax)
	}
	if b.CutoffMin > b.CutoffMax {
		return fmt.Errorf("cutoff bounds inverted: [%g, %g]", b.CutoffMin, b.CutoffMax)
	}
	if b.OrderMin > b.OrderMax {
		return fmt.Errorf("order bounds inverted: [%d, %d]", b.OrderMin, b.OrderMax)
	}
	if b.OrderMin < 1 {
		return fmt.Errorf("order must be >= 1")
	}
	return nil
}

// FromRaw maps unbounded network outputs into the box via a sigmoid squash.
func (b Bounds) FromRaw(raw []float64) Params {
	s := func(v float64) float64 { return 1.0 / (1.0 + math.Exp(-v)) }
	var p Params
	if len(raw) > 0 {
		p.BoostFactor = b.BoostMin + s(raw[0])*(b.BoostMax-b.BoostMin)
	}
	if len(raw) > 1 {
		p.CutoffHz = b.CutoffMin + s(raw[1])*(b.CutoffMax-b.CutoffMin)
	}
	if len(raw) > 2 {
		p.FilterOrder = b.OrderMin + int(math.Round(s(raw[2])*float64(b.OrderMax-b.OrderMin)))
	}
	return p
}

// FromNormalized maps a [0,1]^3 position into the box (the mayfly knob
// convention).
func (b Bounds) FromNormalized(pos []float64) Params {
	u := func(i int) float64 {
		if i >= len(pos) {
			return 0
		}
		v := pos[i]
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	return Params{
		BoostFactor: b.BoostMin + u(0)*(b.BoostMax-b.BoostMin),
		CutoffHz:    b.CutoffMin + u(1)*(b.CutoffMax-b.CutoffMin),
		FilterOrder: b.OrderMin + int(math.Round(u(2)*float64(b.OrderMax-b.OrderMin))),
	}
}

// Contains reports whether p lies inside the box.
func (b Bounds) Contains(p Params) bool {
	return p.BoostFactor >= b.BoostMin && p.BoostFactor <= b.BoostMax &&
		p.CutoffHz >= b.CutoffMin && p.CutoffHz <= b.CutoffMax &&
		p.FilterOrder >= b.OrderMin && p.FilterOrder <= b.OrderMax
}
