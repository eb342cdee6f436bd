package audit

import (
	"testing"
	"time"

	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/refdata"
)

var day0 = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func auditSnapshot() *refdata.Snapshot {
	snap := refdata.New()
	snap.AircraftTypes["A320"] = model.AircraftType{
		ID:         "A320",
		Model:      "Airbus A320neo",
		MaxRangeKm: 6500,
		CruiseKmh:  800,
		Turnaround: time.Hour,
		Cabin:      model.CabinCounts{Economy: 150},
	}
	snap.Hubs["LSZH"] = model.Hub{
		Airport: model.Airport{ICAO: "LSZH", Country: "CH", Latitude: 47.4647, Longitude: 8.5492, UTCOffset: 1},
		Gates:   1,
	}
	snap.Destinations["KJFK"] = model.Destination{
		Airport: model.Airport{ICAO: "KJFK", Country: "US", Latitude: 40.6413, Longitude: -73.7781, UTCOffset: -5},
	}
	snap.Destinations["EGLL"] = model.Destination{
		Airport: model.Airport{ICAO: "EGLL", Country: "GB", Latitude: 51.47, Longitude: -0.4543, UTCOffset: 0},
	}
	snap.Routes["LSZH-KJFK"] = model.Route{HubID: "LSZH", DestinationID: "KJFK", DistanceKm: 1000, Duration: 2 * time.Hour}
	snap.Routes["LSZH-EGLL"] = model.Route{HubID: "LSZH", DestinationID: "EGLL", DistanceKm: 8000, Duration: 9 * time.Hour}
	snap.Fleet["HB-JCA"] = model.FleetUnit{Tail: "HB-JCA", TypeID: "A320", HomeHub: "LSZH", Operational: true}
	snap.Fleet["HB-JCB"] = model.FleetUnit{Tail: "HB-JCB", TypeID: "A320", HomeHub: "LSZH", Operational: false}
	snap.Fleet["HB-JCC"] = model.FleetUnit{Tail: "HB-JCC", TypeID: "A320", HomeHub: "LSZH", Operational: true}
	return snap
}

// rotation books a 06:00-style round trip: two hours out, one hour of
// turnaround, two hours back.
func rotation(id, tail string, dep time.Time, economy int) model.FlightAssignment {
	return model.FlightAssignment{
		ID:            id,
		Tail:          tail,
		RouteID:       "LSZH-KJFK",
		Departure:     dep,
		Arrival:       dep.Add(2 * time.Hour),
		ReturnArrival: dep.Add(5 * time.Hour),
		Seats:         model.CabinCounts{Economy: economy},
	}
}

func schedule(assignments ...model.FlightAssignment) model.Schedule {
	return model.Schedule{
		RunID:       "run-test",
		Horizon:     model.Horizon{Start: day0, Days: 1},
		Assignments: assignments,
	}
}

func hasKind(rep Report, kind ViolationKind) bool {
	for _, v := range rep.Violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

func TestValidateCleanSchedule(t *testing.T) {
	snap := auditSnapshot()
	sched := schedule(rotation("a1", "HB-JCA", day0.Add(6*time.Hour), 150))

	rep := Validate(sched, snap)
	if !rep.Valid || len(rep.Violations) != 0 {
		t.Fatalf("clean schedule rejected: %+v", rep.Violations)
	}
	// A second pass over the same inputs must agree.
	again := Validate(sched, snap)
	if !again.Valid {
		t.Errorf("validation is not idempotent: %+v", again.Violations)
	}
}

func TestValidateCabinCapacity(t *testing.T) {
	snap := auditSnapshot()
	rep := Validate(schedule(rotation("a1", "HB-JCA", day0.Add(6*time.Hour), 200)), snap)
	if !hasKind(rep, KindCapacity) {
		t.Errorf("oversold cabin not flagged: %+v", rep.Violations)
	}
}

func TestValidateUnitOverlap(t *testing.T) {
	snap := auditSnapshot()
	rep := Validate(schedule(
		rotation("a1", "HB-JCA", day0.Add(6*time.Hour), 100),
		rotation("a2", "HB-JCA", day0.Add(8*time.Hour), 100),
	), snap)
	if !hasKind(rep, KindOverlap) {
		t.Errorf("double-booked unit not flagged: %+v", rep.Violations)
	}
}

func TestValidateOverlapWithLaterRotations(t *testing.T) {
	snap := auditSnapshot()
	hub := snap.Hubs["LSZH"]
	hub.Gates = 3
	snap.Hubs["LSZH"] = hub

	// One long rotation spanning most of the day collides with both later
	// bookings of the same unit, not just the next one.
	long := rotation("a1", "HB-JCA", day0.Add(6*time.Hour), 100)
	long.ReturnArrival = day0.Add(20 * time.Hour)
	rep := Validate(schedule(
		long,
		rotation("a2", "HB-JCA", day0.Add(7*time.Hour), 100),
		rotation("a3", "HB-JCA", day0.Add(13*time.Hour), 100),
	), snap)

	overlaps := 0
	for _, v := range rep.Violations {
		if v.Kind == KindOverlap {
			overlaps++
		}
	}
	if overlaps != 2 {
		t.Errorf("expected both later rotations flagged, got %d overlaps: %+v", overlaps, rep.Violations)
	}
}

func TestValidateTurnaroundGap(t *testing.T) {
	snap := auditSnapshot()
	// First rotation returns at 11:00; the next departure at 11:30 leaves
	// half of the required turnaround.
	rep := Validate(schedule(
		rotation("a1", "HB-JCA", day0.Add(6*time.Hour), 100),
		rotation("a2", "HB-JCA", day0.Add(11*time.Hour+30*time.Minute), 100),
	), snap)
	if !hasKind(rep, KindTurnaround) {
		t.Errorf("squeezed turnaround not flagged: %+v", rep.Violations)
	}
}

func TestValidateGateCapacity(t *testing.T) {
	snap := auditSnapshot()
	// Two simultaneous departures from a single-gate hub.
	rep := Validate(schedule(
		rotation("a1", "HB-JCA", day0.Add(6*time.Hour), 100),
		rotation("a2", "HB-JCC", day0.Add(6*time.Hour), 100),
	), snap)
	if !hasKind(rep, KindGates) {
		t.Errorf("gate overflow not flagged: %+v", rep.Violations)
	}
}

func TestValidateRangeExceeded(t *testing.T) {
	snap := auditSnapshot()
	a := rotation("a1", "HB-JCA", day0.Add(6*time.Hour), 100)
	a.RouteID = "LSZH-EGLL"
	rep := Validate(schedule(a), snap)
	if !hasKind(rep, KindRange) {
		t.Errorf("out-of-range assignment not flagged: %+v", rep.Violations)
	}
}

func TestValidateNonOperationalUnit(t *testing.T) {
	snap := auditSnapshot()
	rep := Validate(schedule(rotation("a1", "HB-JCB", day0.Add(6*time.Hour), 100)), snap)
	if !hasKind(rep, KindNonOperational) {
		t.Errorf("grounded unit not flagged: %+v", rep.Violations)
	}
}

func TestValidateUnknownReferences(t *testing.T) {
	snap := auditSnapshot()

	unknownUnit := rotation("a1", "HB-XXX", day0.Add(6*time.Hour), 100)
	rep := Validate(schedule(unknownUnit), snap)
	if !hasKind(rep, KindUnknownRef) {
		t.Errorf("unknown unit not flagged: %+v", rep.Violations)
	}

	unknownRoute := rotation("a2", "HB-JCA", day0.Add(6*time.Hour), 100)
	unknownRoute.RouteID = "XXXX-YYYY"
	rep = Validate(schedule(unknownRoute), snap)
	if !hasKind(rep, KindUnknownRef) {
		t.Errorf("unknown route not flagged: %+v", rep.Violations)
	}
}

func TestValidateMalformedAssignment(t *testing.T) {
	snap := auditSnapshot()
	bad := rotation("a1", "HB-JCA", day0.Add(6*time.Hour), 100)
	bad.Arrival = bad.Departure // arrival must follow departure
	rep := Validate(schedule(bad), snap)
	if !hasKind(rep, KindUnknownRef) {
		t.Errorf("malformed assignment not flagged: %+v", rep.Violations)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	snap := auditSnapshot()
	rep := Validate(schedule(
		rotation("a1", "HB-JCA", day0.Add(6*time.Hour), 200), // capacity
		rotation("a2", "HB-JCB", day0.Add(12*time.Hour), 100), // non-operational
	), snap)
	if rep.Valid {
		t.Fatalf("expected violations")
	}
	if !hasKind(rep, KindCapacity) || !hasKind(rep, KindNonOperational) {
		t.Errorf("expected both violations collected, got %+v", rep.Violations)
	}
}
