package scheduler

import (
	"sort"
	"time"

	"github.com/kilianp07/fleetplan/core/model"
)

// unitState tracks one fleet unit's availability clock during a run. The
// state is private to the run; no two concurrent runs share it.
type unitState struct {
	unit        model.FleetUnit
	typ         model.AircraftType
	availableAt time.Time
	busy        time.Duration
	flights     int
}

// idleAccumulated returns the time the unit has spent on the ground, not
// counting turnarounds, since the start of the horizon.
func (u *unitState) idleAccumulated(start time.Time) time.Duration {
	elapsed := u.availableAt.Sub(start)
	if elapsed < 0 {
		return 0
	}
	idle := elapsed - u.busy
	if idle < 0 {
		return 0
	}
	return idle
}

// interval is a half-open time range [From, To).
type interval struct {
	from, to time.Time
}

// gateLedger tracks gate occupancy intervals at one hub. An aircraft holds a
// gate during its pre-departure turnaround and again after returning, until
// the turnaround completes.
type gateLedger struct {
	gates int
	occ   []interval
}

// fits reports whether adding the given intervals keeps peak simultaneous
// occupancy within the gate count.
func (g *gateLedger) fits(add ...interval) bool {
	return maxOverlap(append(append([]interval{}, g.occ...), add...)) <= g.gates
}

// commit records the intervals in the ledger.
func (g *gateLedger) commit(add ...interval) {
	g.occ = append(g.occ, add...)
}

// maxOverlap sweeps the intervals and returns the peak number that are
// simultaneously active. Releases sort before acquisitions at equal
// timestamps, so back-to-back intervals do not double-count.
func maxOverlap(ivs []interval) int {
	type event struct {
		at    time.Time
		delta int
	}
	evs := make([]event, 0, 2*len(ivs))
	for _, iv := range ivs {
		if !iv.to.After(iv.from) {
			continue
		}
		evs = append(evs, event{at: iv.from, delta: +1}, event{at: iv.to, delta: -1})
	}
	sort.Slice(evs, func(i, j int) bool {
		if evs[i].at.Equal(evs[j].at) {
			return evs[i].delta < evs[j].delta
		}
		return evs[i].at.Before(evs[j].at)
	})
	cur, peak := 0, 0
	for _, ev := range evs {
		cur += ev.delta
		if cur > peak {
			peak = cur
		}
	}
	return peak
}
