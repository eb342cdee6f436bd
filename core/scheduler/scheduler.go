package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/fleetplan/core/capability"
	"github.com/kilianp07/fleetplan/core/events"
	"github.com/kilianp07/fleetplan/core/logger"
	"github.com/kilianp07/fleetplan/core/metrics"
	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/refdata"
	"github.com/kilianp07/fleetplan/internal/eventbus"
)

// Scheduler allocates fleet units to demand entries over a planning horizon.
// A Scheduler is safe to reuse across runs; all mutable state lives in the
// run itself.
type Scheduler struct {
	cfg     Config
	matcher capability.Matcher
	log     logger.Logger
	bus     eventbus.EventBus
	sink    metrics.MetricsSink
}

// New creates a scheduler. Logger, bus and sink may be nil; no-op
// implementations are substituted.
func New(cfg Config, matcher capability.Matcher, log logger.Logger, bus eventbus.EventBus, sink metrics.MetricsSink) (*Scheduler, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Scheduler{cfg: cfg, matcher: matcher, log: log, bus: bus, sink: sink}, nil
}

// rankedEntry is a demand entry with its computed priority.
type rankedEntry struct {
	est      model.DemandEstimate
	priority float64
}

// candidate is a unit considered for one demand entry.
type candidate struct {
	state     *unitState
	departure time.Time
	score     float64
	idle      time.Duration
}

// Schedule runs the greedy pass over the demand table and returns the
// schedule together with unserved demand and utilization. The computation is
// pure with respect to the snapshot: inputs are never mutated.
func (s *Scheduler) Schedule(snap *refdata.Snapshot, table []model.DemandEstimate, horizon model.Horizon) (Result, error) {
	if err := horizon.Validate(); err != nil {
		return Result{}, err
	}
	runID := uuid.NewString()
	start := time.Now()
	res := Result{
		Schedule:    model.Schedule{RunID: runID, Horizon: horizon},
		Utilization: make(map[string]UnitUtilization),
	}

	units := snap.OperationalUnits()
	if len(units) == 0 {
		s.log.Warnf("run %s: no operational fleet units, returning empty schedule", runID)
		res.EmptyFleet = true
		s.finish(&res, runID, start)
		return res, nil
	}

	states := make([]*unitState, 0, len(units))
	fleetTypes := make([]model.AircraftType, 0, len(snap.AircraftTypes))
	seenTypes := make(map[string]bool)
	for _, u := range units {
		typ, err := snap.UnitType(u.Tail)
		if err != nil {
			s.log.Warnf("run %s: skipping unit %s: %v", runID, u.Tail, err)
			continue
		}
		states = append(states, &unitState{unit: u, typ: typ, availableAt: horizon.Start})
		if !seenTypes[typ.ID] {
			seenTypes[typ.ID] = true
			fleetTypes = append(fleetTypes, typ)
		}
	}

	gates := make(map[string]*gateLedger, len(snap.Hubs))
	for id, h := range snap.Hubs {
		gates[id] = &gateLedger{gates: h.Gates}
	}

	s.publish(events.PlanStarted{RunID: runID, Routes: len(snap.Routes), Units: len(states), Start: horizon.Start})

	entries := s.rank(table, snap)
	infeasible := make(map[string]bool)
	iterations := 0
	budgetHit := false

	for i, en := range entries {
		est := en.est
		if budgetHit {
			s.unserve(&res, runID, est, est.CabinCounts, ReasonBudget)
			continue
		}
		if est.CabinCounts.IsZero() {
			continue
		}
		route, ok := snap.Routes[est.RouteID]
		if !ok {
			s.log.Warnf("run %s: demand entry references unknown route %s", runID, est.RouteID)
			s.unserve(&res, runID, est, est.CabinCounts, ReasonUnknownRoute)
			continue
		}
		if infeasible[est.RouteID] {
			s.unserve(&res, runID, est, est.CabinCounts, ReasonInfeasible)
			continue
		}
		if !s.matcher.AnyFeasible(fleetTypes, route) {
			// Surfaced once per route per run, per capability.ErrInfeasible.
			infeasible[est.RouteID] = true
			res.InfeasibleRoutes = append(res.InfeasibleRoutes, est.RouteID)
			s.log.Errorf("run %s: route %s: %v", runID, est.RouteID, capability.ErrInfeasible)
			s.publish(events.RouteInfeasible{RunID: runID, RouteID: est.RouteID})
			s.unserve(&res, runID, est, est.CabinCounts, ReasonInfeasible)
			continue
		}

		committed := false
		for _, c := range s.candidates(states, route, est, horizon) {
			iterations++
			if s.cfg.MaxIterations > 0 && iterations > s.cfg.MaxIterations {
				s.log.Warnf("run %s: iteration budget %d exhausted at entry %d/%d", runID, s.cfg.MaxIterations, i+1, len(entries))
				budgetHit = true
				break
			}
			if s.commit(&res, runID, c, route, est, gates[route.HubID]) {
				committed = true
				break
			}
		}
		if budgetHit && !committed {
			s.unserve(&res, runID, est, est.CabinCounts, ReasonBudget)
			continue
		}
		if !committed {
			s.unserve(&res, runID, est, est.CabinCounts, ReasonNoUnit)
		}
	}

	s.summarize(&res, states, horizon)
	s.finish(&res, runID, start)
	return res, nil
}

// rank orders demand entries by class-value weighted demand over distance,
// descending, with route then day as deterministic tie-breaks.
func (s *Scheduler) rank(table []model.DemandEstimate, snap *refdata.Snapshot) []rankedEntry {
	entries := make([]rankedEntry, 0, len(table))
	for _, est := range table {
		p := 0.0
		if r, ok := snap.Routes[est.RouteID]; ok && r.DistanceKm > 0 {
			value := float64(est.First)*s.cfg.FirstClassValue +
				float64(est.Business)*s.cfg.BusinessClassValue +
				float64(est.Economy)*s.cfg.EconomyClassValue
			p = value / r.DistanceKm
		}
		entries = append(entries, rankedEntry{est: est, priority: p})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		if entries[i].est.RouteID != entries[j].est.RouteID {
			return entries[i].est.RouteID < entries[j].est.RouteID
		}
		return entries[i].est.Day.Before(entries[j].est.Day)
	})
	return entries
}

// candidates returns the units able to serve the entry, ordered by
// capability score, then least accumulated idle time, then tail number.
func (s *Scheduler) candidates(states []*unitState, route model.Route, est model.DemandEstimate, horizon model.Horizon) []candidate {
	slot := time.Duration(s.cfg.SlotDurationMinutes) * time.Minute
	earliest := est.Day.Add(time.Duration(s.cfg.DayStartHour) * time.Hour)
	latest := est.Day.Add(time.Duration(s.cfg.DayEndHour) * time.Hour)

	var list []candidate
	for _, st := range states {
		if !st.unit.Operational || st.unit.HomeHub != route.HubID {
			continue
		}
		if !s.matcher.Feasible(st.typ, route) {
			continue
		}
		dep := earliest
		if st.availableAt.After(earliest) {
			offset := st.availableAt.Sub(earliest)
			slots := (offset + slot - 1) / slot
			dep = earliest.Add(slots * slot)
		}
		if dep.After(latest) {
			continue
		}
		list = append(list, candidate{
			state:     st,
			departure: dep,
			score:     s.matcher.Score(st.typ, route, est.CabinCounts),
			idle:      st.idleAccumulated(horizon.Start),
		})
	}
	sort.Slice(list, func(i, j int) bool {
		if math.Abs(list[i].score-list[j].score) > 1e-9 {
			return list[i].score > list[j].score
		}
		if list[i].idle != list[j].idle {
			return list[i].idle < list[j].idle
		}
		return list[i].state.unit.Tail < list[j].state.unit.Tail
	})
	return list
}

// commit attempts to book the candidate on the route. The seat allocation,
// time window and gate occupancy are applied atomically: a gate conflict
// rejects the whole commitment and leaves the run state untouched.
func (s *Scheduler) commit(res *Result, runID string, c candidate, route model.Route, est model.DemandEstimate, ledger *gateLedger) bool {
	typ := c.state.typ
	dur := route.Duration
	if dur <= 0 {
		dur = typ.FlightTime(route.DistanceKm)
	}
	dep := c.departure
	arr := dep.Add(dur)
	retArr := arr.Add(typ.Turnaround).Add(dur)
	availableAt := retArr.Add(typ.Turnaround)

	preFrom := dep.Add(-typ.Turnaround)
	if preFrom.Before(res.Schedule.Horizon.Start) {
		preFrom = res.Schedule.Horizon.Start
	}
	pre := interval{from: preFrom, to: dep}
	post := interval{from: retArr, to: availableAt}
	if ledger != nil && !ledger.fits(pre, post) {
		// Local scheduling conflict: skip to the next-best unit.
		s.log.Debugf("run %s: gate conflict at %s for unit %s on %s", runID, route.HubID, c.state.unit.Tail, route.ID())
		return false
	}

	seats := model.CabinCounts{}
	leftover := model.CabinCounts{}
	for _, cl := range model.Classes {
		want := est.ForClass(cl)
		have := typ.Cabin.ForClass(cl)
		sold := want
		if sold > have {
			sold = have
		}
		seats.Set(cl, sold)
		leftover.Set(cl, want-sold)
	}

	a := model.FlightAssignment{
		ID:            uuid.NewString(),
		Tail:          c.state.unit.Tail,
		RouteID:       route.ID(),
		Departure:     dep,
		Arrival:       arr,
		ReturnArrival: retArr,
		Seats:         seats,
		Score:         c.score,
	}
	if ledger != nil {
		ledger.commit(pre, post)
	}
	c.state.availableAt = availableAt
	c.state.busy += availableAt.Sub(dep)
	c.state.flights++
	res.Schedule.Assignments = append(res.Schedule.Assignments, a)
	s.publish(events.AssignmentCommitted{RunID: runID, Assignment: a})

	if !leftover.IsZero() {
		s.unserve(res, runID, est, leftover, ReasonCapacity)
	}
	return true
}

func (s *Scheduler) unserve(res *Result, runID string, est model.DemandEstimate, pax model.CabinCounts, reason string) {
	if pax.IsZero() {
		return
	}
	res.Unserved = append(res.Unserved, UnservedDemand{
		RouteID: est.RouteID,
		Day:     est.Day,
		Pax:     pax,
		Reason:  reason,
	})
	s.publish(events.EntryUnserved{RunID: runID, RouteID: est.RouteID, Day: est.Day, Reason: reason, Pax: pax})
}

// summarize fills the per-unit utilization map and the fleet mean.
func (s *Scheduler) summarize(res *Result, states []*unitState, horizon model.Horizon) {
	horizonHours := horizon.End().Sub(horizon.Start).Hours()
	fractions := make([]float64, 0, len(states))
	for _, st := range states {
		busy := st.busy.Hours()
		u := UnitUtilization{
			Tail:      st.unit.Tail,
			Flights:   st.flights,
			BusyHours: busy,
			IdleHours: math.Max(horizonHours-busy, 0),
		}
		if horizonHours > 0 {
			u.Utilization = busy / horizonHours
		}
		res.Utilization[st.unit.Tail] = u
		fractions = append(fractions, u.Utilization)
	}
	if len(fractions) > 0 {
		res.MeanUtilization = stat.Mean(fractions, nil)
	}
	sort.Slice(res.Schedule.Assignments, func(i, j int) bool {
		a, b := res.Schedule.Assignments[i], res.Schedule.Assignments[j]
		if !a.Departure.Equal(b.Departure) {
			return a.Departure.Before(b.Departure)
		}
		return a.RouteID < b.RouteID
	})
}

func (s *Scheduler) finish(res *Result, runID string, start time.Time) {
	elapsed := time.Since(start)
	s.publish(events.PlanCompleted{
		RunID:       runID,
		Assignments: len(res.Schedule.Assignments),
		UnservedPax: res.UnservedPax(),
		Elapsed:     elapsed,
	})
	run := metrics.PlanRun{
		RunID:            runID,
		Horizon:          res.Schedule.Horizon,
		FleetSize:        len(res.Utilization),
		Assignments:      len(res.Schedule.Assignments),
		SeatsSold:        res.SeatsSold(),
		UnservedPax:      res.UnservedPax(),
		InfeasibleRoutes: len(res.InfeasibleRoutes),
		Elapsed:          elapsed,
		Time:             time.Now(),
	}
	if err := s.sink.RecordPlanRun(run); err != nil {
		s.log.Errorf("run %s: record plan run: %v", runID, err)
	}
	recs := make([]metrics.AssignmentRecord, 0, len(res.Schedule.Assignments))
	for _, a := range res.Schedule.Assignments {
		recs = append(recs, metrics.AssignmentRecord{
			RunID:     runID,
			Tail:      a.Tail,
			RouteID:   a.RouteID,
			Departure: a.Departure,
			SeatsSold: a.Seats.Total(),
			Score:     a.Score,
		})
	}
	if len(recs) > 0 {
		if err := s.sink.RecordAssignments(recs); err != nil {
			s.log.Errorf("run %s: record assignments: %v", runID, err)
		}
	}
}

func (s *Scheduler) publish(e eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
