package scheduler

import (
	"time"

	"github.com/kilianp07/fleetplan/core/model"
)

// Reasons attached to unserved demand entries.
const (
	ReasonCapacity     = "capacity"         // cabin smaller than demand
	ReasonNoUnit       = "no_unit"          // no unit available within the day window
	ReasonInfeasible   = "route_infeasible" // no type in the fleet can fly the route
	ReasonBudget       = "iteration_budget" // greedy loop hit the iteration cap
	ReasonUnknownRoute = "unknown_route"    // demand entry references no known route
)

// UnservedDemand records passenger demand no assignment satisfies.
type UnservedDemand struct {
	RouteID string            `json:"route_id"`
	Day     time.Time         `json:"day"`
	Pax     model.CabinCounts `json:"pax"`
	Reason  string            `json:"reason"`
}

// UnitUtilization summarises how one fleet unit was used over the horizon.
// BusyHours covers the full rotation commitment, departure through the
// post-return turnaround.
type UnitUtilization struct {
	Tail        string  `json:"tail"`
	Flights     int     `json:"flights"`
	BusyHours   float64 `json:"busy_hours"`
	IdleHours   float64 `json:"idle_hours"`
	Utilization float64 `json:"utilization"` // busy fraction of the horizon
}

// Result is the full output of a planning run: the accepted schedule plus
// the unserved-demand list and the per-unit utilization summary.
type Result struct {
	Schedule         model.Schedule             `json:"schedule"`
	Unserved         []UnservedDemand           `json:"unserved"`
	Utilization      map[string]UnitUtilization `json:"utilization"`
	MeanUtilization  float64                    `json:"mean_utilization"`
	InfeasibleRoutes []string                   `json:"infeasible_routes"`
	// EmptyFleet flags a run over an empty or fully non-operational fleet.
	EmptyFleet bool `json:"empty_fleet"`
}

// UnservedPax returns the total number of unserved passengers.
func (r Result) UnservedPax() int {
	total := 0
	for _, u := range r.Unserved {
		total += u.Pax.Total()
	}
	return total
}

// SeatsSold returns the total number of seats sold across the schedule.
func (r Result) SeatsSold() int {
	total := 0
	for _, a := range r.Schedule.Assignments {
		total += a.Seats.Total()
	}
	return total
}
