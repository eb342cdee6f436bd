package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/scheduler"
)

func sampleResult() scheduler.Result {
	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	return scheduler.Result{
		Schedule: model.Schedule{
			RunID:   "run-1",
			Horizon: model.Horizon{Start: day, Days: 1},
			Assignments: []model.FlightAssignment{{
				ID:            "a1",
				Tail:          "HB-JCA",
				RouteID:       "LSZH-KJFK",
				Departure:     day.Add(6 * time.Hour),
				Arrival:       day.Add(8 * time.Hour),
				ReturnArrival: day.Add(11 * time.Hour),
				Seats:         model.CabinCounts{Business: 12, Economy: 138},
				Score:         0.82,
			}},
		},
		Unserved: []scheduler.UnservedDemand{{
			RouteID: "LSZH-KJFK",
			Day:     day,
			Pax:     model.CabinCounts{Economy: 50},
			Reason:  scheduler.ReasonCapacity,
		}},
		Utilization:     map[string]scheduler.UnitUtilization{"HB-JCA": {Tail: "HB-JCA", Flights: 1, Utilization: 0.25}},
		MeanUtilization: 0.25,
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	res := sampleResult()
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Schedule.RunID != res.Schedule.RunID {
		t.Errorf("run id %s", got.Schedule.RunID)
	}
	if len(got.Schedule.Assignments) != 1 {
		t.Fatalf("assignments %d", len(got.Schedule.Assignments))
	}
	a, b := got.Schedule.Assignments[0], res.Schedule.Assignments[0]
	if a.Tail != b.Tail || a.Seats != b.Seats || !a.Departure.Equal(b.Departure) {
		t.Errorf("assignment mismatch: %+v vs %+v", a, b)
	}
	if len(got.Unserved) != 1 || got.Unserved[0].Reason != scheduler.ReasonCapacity {
		t.Errorf("unserved mismatch: %+v", got.Unserved)
	}
	if got.MeanUtilization != 0.25 {
		t.Errorf("mean utilization %f", got.MeanUtilization)
	}
}

func TestWriteScheduleCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScheduleCSV(&buf, sampleResult().Schedule.Assignments); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "tail,route_id,departure") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "HB-JCA") || !strings.Contains(lines[1], "138") {
		t.Errorf("unexpected row %q", lines[1])
	}
}

func TestWriteUnservedCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUnservedCSV(&buf, sampleResult().Unserved); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "capacity") || !strings.Contains(out, "2026-03-02") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestWriteDemandCSV(t *testing.T) {
	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	routes := []model.Route{{HubID: "LSZH", DestinationID: "KJFK", DistanceKm: 6330}}
	estimates := map[string]model.DemandEstimate{
		"LSZH-KJFK": {RouteID: "LSZH-KJFK", Day: day, CabinCounts: model.CabinCounts{First: 10, Business: 40, Economy: 300}},
	}
	var buf bytes.Buffer
	if err := WriteDemandCSV(&buf, routes, estimates); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[1] != "LSZH,KJFK,6330.00,10,40,300" {
		t.Errorf("unexpected row %q", lines[1])
	}
}
