package model

import (
	"fmt"
	"time"
)

// Route is a directed hub to destination pair. The demand fields are
// estimates recomputed per planning run, never static truth.
type Route struct {
	HubID         string
	DestinationID string
	DistanceKm    float64
	Duration      time.Duration // nominal one-way flight time
	Demand        CabinCounts   // last computed per-class demand estimate
}

// ID returns the canonical identifier of the route.
func (r Route) ID() string {
	return r.HubID + "-" + r.DestinationID
}

// Validate checks that the route endpoints and geometry are populated.
func (r Route) Validate() error {
	if r.HubID == "" || r.DestinationID == "" {
		return fmt.Errorf("route endpoints are required")
	}
	if r.HubID == r.DestinationID {
		return fmt.Errorf("route %s: hub and destination are identical", r.ID())
	}
	if r.DistanceKm <= 0 {
		return fmt.Errorf("route %s: distance must be positive", r.ID())
	}
	return nil
}

// DemandEstimate is the per-class passenger demand for one route and one
// planning day. It is derived data consumed immediately by the scheduler.
type DemandEstimate struct {
	RouteID string
	Day     time.Time // UTC midnight of the planning day
	CabinCounts
}

// Horizon is the discretized planning window a schedule covers.
type Horizon struct {
	Start time.Time // UTC midnight of the first planning day
	Days  int
}

// Validate checks the horizon bounds.
func (h Horizon) Validate() error {
	if h.Start.IsZero() {
		return fmt.Errorf("horizon start is required")
	}
	if h.Days <= 0 {
		return fmt.Errorf("horizon must cover at least one day")
	}
	return nil
}

// End returns the first instant past the horizon.
func (h Horizon) End() time.Time {
	return h.Start.AddDate(0, 0, h.Days)
}

// Day returns the UTC midnight of the i-th planning day.
func (h Horizon) Day(i int) time.Time {
	return h.Start.AddDate(0, 0, i)
}
