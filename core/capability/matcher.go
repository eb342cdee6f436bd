// Package capability decides whether an aircraft type can serve a route and
// how well its cabin fits the route's demand.
package capability

import (
	"errors"
	"math"

	"github.com/kilianp07/fleetplan/core/model"
)

// ErrInfeasible indicates no aircraft type in the fleet can ever serve the
// route, regardless of availability.
var ErrInfeasible = errors.New("no aircraft type can serve route")

// Weights tunes the capability score. Undercapacity weighs heavier than
// overcapacity: unmet demand is a direct loss while spare seats are merely
// suboptimal.
type Weights struct {
	Range        float64 `json:"range"`
	Fit          float64 `json:"fit"`
	UnderPenalty float64 `json:"under_penalty"`
	OverPenalty  float64 `json:"over_penalty"`
}

// DefaultWeights returns the calibration the matcher ships with.
func DefaultWeights() Weights {
	return Weights{Range: 0.4, Fit: 0.6, UnderPenalty: 2.0, OverPenalty: 0.5}
}

// Matcher scores aircraft types against routes. Deterministic given
// reference data, no side effects.
type Matcher struct {
	weights Weights
}

// NewMatcher builds a matcher, falling back to default penalties when the
// provided weights are zero-valued.
func NewMatcher(w Weights) Matcher {
	def := DefaultWeights()
	if w.Range <= 0 && w.Fit <= 0 {
		w.Range, w.Fit = def.Range, def.Fit
	}
	if w.UnderPenalty <= 0 {
		w.UnderPenalty = def.UnderPenalty
	}
	if w.OverPenalty <= 0 {
		w.OverPenalty = def.OverPenalty
	}
	return Matcher{weights: w}
}

// Feasible reports whether the type can fly the route at all.
func (m Matcher) Feasible(t model.AircraftType, r model.Route) bool {
	return t.CanFly(r.DistanceKm)
}

// AnyFeasible reports whether at least one of the given types can serve the
// route; callers surface ErrInfeasible when none can.
func (m Matcher) AnyFeasible(types []model.AircraftType, r model.Route) bool {
	for _, t := range types {
		if m.Feasible(t, r) {
			return true
		}
	}
	return false
}

// Score rates how well the type serves the route's demand. The range term
// decreases monotonically with unused range margin; the fit term penalizes
// cabins far larger or smaller than demand, asymmetrically. Returns 0 for an
// infeasible pairing.
func (m Matcher) Score(t model.AircraftType, r model.Route, demand model.CabinCounts) float64 {
	if !m.Feasible(t, r) {
		return 0
	}
	margin := (t.MaxRangeKm - r.DistanceKm) / t.MaxRangeKm
	rangeTerm := 1 - margin

	mismatch := 0.0
	scale := 0.0
	for _, cl := range model.Classes {
		want := float64(demand.ForClass(cl))
		have := float64(t.Cabin.ForClass(cl))
		if want == 0 && have == 0 {
			continue
		}
		diff := have - want
		if diff < 0 {
			mismatch += m.weights.UnderPenalty * -diff
		} else {
			mismatch += m.weights.OverPenalty * diff
		}
		scale += math.Max(want, have)
	}
	fitTerm := 1.0
	if scale > 0 {
		fitTerm = 1 / (1 + mismatch/scale)
	}
	return m.weights.Range*rangeTerm + m.weights.Fit*fitTerm
}
