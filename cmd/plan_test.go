package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/fleetplan/app"
	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/scheduler"
)

func sampleReport() app.RunReport {
	day0 := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	return app.RunReport{
		Result: scheduler.Result{
			Schedule: model.Schedule{
				RunID:   "run-test",
				Horizon: model.Horizon{Start: day0, Days: 1},
				Assignments: []model.FlightAssignment{{
					ID:            "a1",
					Tail:          "HB-JCA",
					RouteID:       "LSZH-KJFK",
					Departure:     day0.Add(6 * time.Hour),
					Arrival:       day0.Add(8 * time.Hour),
					ReturnArrival: day0.Add(11 * time.Hour),
					Seats:         model.CabinCounts{Economy: 150},
				}},
			},
			Unserved: []scheduler.UnservedDemand{{
				RouteID: "LSZH-KJFK",
				Day:     day0,
				Pax:     model.CabinCounts{Economy: 50},
				Reason:  scheduler.ReasonCapacity,
			}},
		},
	}
}

func TestWritePlanCSVIncludesUnserved(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plan.csv")
	if err := writePlan(sampleReport(), out, "csv"); err != nil {
		t.Fatalf("write plan: %v", err)
	}

	sched, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read schedule csv: %v", err)
	}
	if !strings.Contains(string(sched), "HB-JCA,LSZH-KJFK") {
		t.Errorf("schedule csv missing assignment row: %s", sched)
	}

	raw, err := os.ReadFile(unservedPath(out))
	if err != nil {
		t.Fatalf("read unserved csv: %v", err)
	}
	got := string(raw)
	if !strings.Contains(got, "route_id,day,first,business,economy,reason") {
		t.Errorf("unserved csv missing header: %s", got)
	}
	if !strings.Contains(got, "LSZH-KJFK,2026-03-02,0,0,50,capacity") {
		t.Errorf("unserved csv missing row: %s", got)
	}
}

func TestWritePlanJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plan.json")
	if err := writePlan(sampleReport(), out, "json"); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if !strings.Contains(string(raw), "\"run-test\"") {
		t.Errorf("json output missing run id: %s", raw)
	}
}

func TestWritePlanRejectsUnknownFormat(t *testing.T) {
	if err := writePlan(sampleReport(), "", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestUnservedPath(t *testing.T) {
	cases := map[string]string{
		"plan.csv":     "plan_unserved.csv",
		"out/plan.csv": "out/plan_unserved.csv",
		"plan":         "plan_unserved",
	}
	for in, want := range cases {
		if got := unservedPath(in); got != want {
			t.Errorf("unservedPath(%q) = %q, want %q", in, got, want)
		}
	}
}
