// Package events defines the notifications published on the event bus during
// a planning run.
package events

import (
	"time"

	"github.com/kilianp07/fleetplan/core/model"
)

// PlanStarted marks the beginning of a planning run.
type PlanStarted struct {
	RunID  string
	Routes int
	Units  int
	Start  time.Time
}

// AssignmentCommitted is published for every accepted flight assignment.
type AssignmentCommitted struct {
	RunID      string
	Assignment model.FlightAssignment
}

// EntryUnserved is published when a demand entry could not be fully served.
type EntryUnserved struct {
	RunID   string
	RouteID string
	Day     time.Time
	Reason  string
	Pax     model.CabinCounts
}

// RouteInfeasible is published exactly once per route no type in the fleet
// can serve.
type RouteInfeasible struct {
	RunID   string
	RouteID string
}

// PlanCompleted closes a planning run.
type PlanCompleted struct {
	RunID       string
	Assignments int
	UnservedPax int
	Elapsed     time.Duration
}
