// Package audit re-checks a produced schedule against every hard constraint,
// independently of the scheduler's own bookkeeping. Violations are collected,
// never raised, so one run surfaces every problem.
package audit

import (
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/refdata"
)

// ViolationKind classifies a constraint breach.
type ViolationKind string

const (
	KindOverlap        ViolationKind = "unit_overlap"
	KindTurnaround     ViolationKind = "turnaround"
	KindGates          ViolationKind = "gate_capacity"
	KindCapacity       ViolationKind = "cabin_capacity"
	KindRange          ViolationKind = "range_exceeded"
	KindNonOperational ViolationKind = "non_operational_unit"
	KindUnknownRef     ViolationKind = "unknown_reference"
)

// Violation describes one constraint breach and the assignments involved.
type Violation struct {
	Kind        ViolationKind `json:"kind"`
	Assignments []string      `json:"assignments"`
	Detail      string        `json:"detail"`
}

// Report is the outcome of a validation pass.
type Report struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations"`
}

// Validate checks the schedule against the reference data snapshot and
// returns every violation found.
func Validate(sched model.Schedule, snap *refdata.Snapshot) Report {
	var violations []Violation
	add := func(kind ViolationKind, ids []string, format string, args ...any) {
		violations = append(violations, Violation{
			Kind:        kind,
			Assignments: ids,
			Detail:      fmt.Sprintf(format, args...),
		})
	}

	byUnit := make(map[string][]model.FlightAssignment)
	for _, a := range sched.Assignments {
		if err := a.Validate(); err != nil {
			add(KindUnknownRef, []string{a.ID}, "malformed assignment: %v", err)
			continue
		}
		unit, ok := snap.Fleet[a.Tail]
		if !ok {
			add(KindUnknownRef, []string{a.ID}, "assignment references unknown unit %s", a.Tail)
			continue
		}
		if !unit.Operational {
			add(KindNonOperational, []string{a.ID}, "unit %s is not operational", a.Tail)
		}
		typ, err := snap.UnitType(a.Tail)
		if err != nil {
			add(KindUnknownRef, []string{a.ID}, "%v", err)
			continue
		}
		route, ok := snap.Routes[a.RouteID]
		if !ok {
			add(KindUnknownRef, []string{a.ID}, "assignment references unknown route %s", a.RouteID)
			continue
		}
		if route.DistanceKm > typ.MaxRangeKm {
			add(KindRange, []string{a.ID}, "route %s distance %.0f km exceeds %s range %.0f km",
				a.RouteID, route.DistanceKm, typ.ID, typ.MaxRangeKm)
		}
		for _, cl := range model.Classes {
			if a.Seats.ForClass(cl) > typ.Cabin.ForClass(cl) {
				add(KindCapacity, []string{a.ID}, "%s seats sold %d exceed %s cabin %d",
					cl, a.Seats.ForClass(cl), typ.ID, typ.Cabin.ForClass(cl))
			}
		}
		byUnit[a.Tail] = append(byUnit[a.Tail], a)
	}

	violations = append(violations, checkUnitWindows(byUnit, snap)...)
	violations = append(violations, checkGates(sched, snap)...)

	return Report{Valid: len(violations) == 0, Violations: violations}
}

// checkUnitWindows verifies that no unit is double-booked and that the
// turnaround gap separates consecutive rotations.
func checkUnitWindows(byUnit map[string][]model.FlightAssignment, snap *refdata.Snapshot) []Violation {
	var violations []Violation
	tails := make([]string, 0, len(byUnit))
	for tail := range byUnit {
		tails = append(tails, tail)
	}
	sort.Strings(tails)
	for _, tail := range tails {
		list := byUnit[tail]
		sort.Slice(list, func(i, j int) bool { return list[i].Departure.Before(list[j].Departure) })
		typ, err := snap.UnitType(tail)
		if err != nil {
			continue // already reported as unknown reference
		}
		// Overlap is checked for every pair: a long rotation can collide
		// with more than its immediate successor. The turnaround gap only
		// applies between consecutive rotations.
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				prev, next := list[i], list[j]
				if prev.Overlaps(next) {
					violations = append(violations, Violation{
						Kind:        KindOverlap,
						Assignments: []string{prev.ID, next.ID},
						Detail:      fmt.Sprintf("unit %s double-booked on %s and %s", tail, prev.RouteID, next.RouteID),
					})
					continue
				}
				if j != i+1 {
					continue
				}
				gap := next.Departure.Sub(prev.ReturnArrival)
				if gap < typ.Turnaround {
					violations = append(violations, Violation{
						Kind:        KindTurnaround,
						Assignments: []string{prev.ID, next.ID},
						Detail: fmt.Sprintf("unit %s has %s between rotations, turnaround requires %s",
							tail, gap, typ.Turnaround),
					})
				}
			}
		}
	}
	return violations
}

// checkGates sweeps gate occupancy per hub. An assignment holds a hub gate
// during the pre-departure turnaround and again after the rotation returns.
func checkGates(sched model.Schedule, snap *refdata.Snapshot) []Violation {
	type event struct {
		at    time.Time
		delta int
		id    string
	}
	var violations []Violation
	hubIDs := make([]string, 0, len(snap.Hubs))
	for id := range snap.Hubs {
		hubIDs = append(hubIDs, id)
	}
	sort.Strings(hubIDs)
	for _, hubID := range hubIDs {
		hub := snap.Hubs[hubID]
		var evs []event
		for _, a := range sched.Assignments {
			route, ok := snap.Routes[a.RouteID]
			if !ok || route.HubID != hubID {
				continue
			}
			typ, err := snap.UnitType(a.Tail)
			if err != nil {
				continue
			}
			preFrom := a.Departure.Add(-typ.Turnaround)
			if preFrom.Before(sched.Horizon.Start) {
				preFrom = sched.Horizon.Start
			}
			evs = append(evs,
				event{at: preFrom, delta: +1, id: a.ID},
				event{at: a.Departure, delta: -1, id: a.ID},
				event{at: a.ReturnArrival, delta: +1, id: a.ID},
				event{at: a.ReturnArrival.Add(typ.Turnaround), delta: -1, id: a.ID},
			)
		}
		sort.Slice(evs, func(i, j int) bool {
			if evs[i].at.Equal(evs[j].at) {
				return evs[i].delta < evs[j].delta
			}
			return evs[i].at.Before(evs[j].at)
		})
		present := 0
		active := make(map[string]bool)
		reported := false
		for _, ev := range evs {
			present += ev.delta
			if ev.delta > 0 {
				active[ev.id] = true
			} else {
				delete(active, ev.id)
			}
			if present > hub.Gates && !reported {
				ids := make([]string, 0, len(active))
				for id := range active {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				violations = append(violations, Violation{
					Kind:        KindGates,
					Assignments: ids,
					Detail:      fmt.Sprintf("hub %s holds %d aircraft at %s with %d gates", hubID, present, ev.at.Format(time.RFC3339), hub.Gates),
				})
				reported = true
			}
		}
	}
	return violations
}
