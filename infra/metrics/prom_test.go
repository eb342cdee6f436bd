package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/fleetplan/core/metrics"
	"github.com/kilianp07/fleetplan/core/model"
)

func TestPromSink_RecordPlanRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink, ok := sinkIf.(*PromSink)
	if !ok {
		t.Fatalf("expected PromSink")
	}

	run := coremetrics.PlanRun{
		RunID:            "run-1",
		Horizon:          model.Horizon{Start: time.Now(), Days: 7},
		FleetSize:        12,
		Assignments:      30,
		SeatsSold:        4200,
		UnservedPax:      150,
		InfeasibleRoutes: 2,
		Elapsed:          80 * time.Millisecond,
		Time:             time.Now(),
	}
	if err := sink.RecordPlanRun(run); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := sink.RecordAssignments([]coremetrics.AssignmentRecord{
		{RunID: "run-1", Tail: "HB-JCA", RouteID: "LSZH-KJFK", SeatsSold: 150, Score: 0.8},
		{RunID: "run-1", Tail: "HB-JCB", RouteID: "LSZH-KJFK", SeatsSold: 140, Score: 0.7},
	}); err != nil {
		t.Fatalf("record assignments: %v", err)
	}

	expectedFleet := `
# HELP planner_fleet_units Operational fleet units considered by the last run
# TYPE planner_fleet_units gauge
planner_fleet_units 12
`
	if err := testutil.CollectAndCompare(sink.fleet, strings.NewReader(expectedFleet)); err != nil {
		t.Errorf("unexpected fleet metric: %v", err)
	}

	expectedAssignments := `
# HELP planner_assignments_total Total number of committed flight assignments
# TYPE planner_assignments_total counter
planner_assignments_total{route_id="LSZH-KJFK"} 2
`
	if err := testutil.CollectAndCompare(sink.assignments, strings.NewReader(expectedAssignments)); err != nil {
		t.Errorf("unexpected assignment metric: %v", err)
	}

	if c := testutil.CollectAndCount(sink.duration); c == 0 {
		t.Errorf("run duration not recorded")
	}
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first sink: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second sink should reuse collectors: %v", err)
	}
}
