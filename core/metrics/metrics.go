// Package metrics defines the observability records a planning run emits and
// the sink interface infra adapters implement.
package metrics

import (
	"time"

	"github.com/kilianp07/fleetplan/core/model"
)

// PlanRun summarises one scheduling run.
type PlanRun struct {
	RunID            string
	Horizon          model.Horizon
	FleetSize        int
	Assignments      int
	SeatsSold        int
	UnservedPax      int
	InfeasibleRoutes int
	Elapsed          time.Duration
	Time             time.Time
}

// AssignmentRecord is the per-assignment observability record.
type AssignmentRecord struct {
	RunID     string
	Tail      string
	RouteID   string
	Departure time.Time
	SeatsSold int
	Score     float64
}

// MetricsSink records planning results for observability purposes.
type MetricsSink interface {
	RecordPlanRun(run PlanRun) error
	RecordAssignments(recs []AssignmentRecord) error
}

// FleetSizeRecorder is implemented by sinks able to track the operational
// fleet size as a gauge.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlanRun(PlanRun) error                { return nil }
func (NopSink) RecordAssignments([]AssignmentRecord) error { return nil }
func (NopSink) RecordFleetSize(int) error                  { return nil }
