package model

import (
	"fmt"
	"time"
)

// FlightAssignment binds one fleet unit to one route rotation: the unit
// departs its hub, flies the outbound leg, turns around at the destination
// and flies back. Seats refer to the outbound leg.
type FlightAssignment struct {
	ID            string      `json:"id"`
	Tail          string      `json:"tail"`
	RouteID       string      `json:"route_id"`
	Departure     time.Time   `json:"departure"`
	Arrival       time.Time   `json:"arrival"`        // arrival at the destination
	ReturnArrival time.Time   `json:"return_arrival"` // arrival back at the hub
	Seats         CabinCounts `json:"seats"`
	Score         float64     `json:"score"` // capability score of the chosen unit
}

// Validate checks the internal consistency of the assignment times.
func (a FlightAssignment) Validate() error {
	if a.Tail == "" || a.RouteID == "" {
		return fmt.Errorf("assignment %s: tail and route are required", a.ID)
	}
	if !a.Arrival.After(a.Departure) {
		return fmt.Errorf("assignment %s: arrival must follow departure", a.ID)
	}
	if !a.ReturnArrival.After(a.Arrival) {
		return fmt.Errorf("assignment %s: return must follow arrival", a.ID)
	}
	return nil
}

// Overlaps reports whether two assignments occupy the same unit time window,
// including the rotation back to the hub.
func (a FlightAssignment) Overlaps(b FlightAssignment) bool {
	return a.Departure.Before(b.ReturnArrival) && b.Departure.Before(a.ReturnArrival)
}

// Schedule is the full set of committed flight assignments for a planning
// horizon, ordered by departure time.
type Schedule struct {
	RunID       string             `json:"run_id"`
	Horizon     Horizon            `json:"horizon"`
	Assignments []FlightAssignment `json:"assignments"`
}
