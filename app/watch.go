package app

import (
	"context"
	"time"

	"github.com/kilianp07/fleetplan/core/events"
	"github.com/kilianp07/fleetplan/infra/logger"
	"github.com/kilianp07/fleetplan/internal/eventbus"
)

// WatchProgress subscribes to the run event bus and logs planning progress
// until the context is canceled or the bus closes. The returned channel is
// closed once the watcher has drained its subscription.
func WatchProgress(ctx context.Context, bus eventbus.EventBus, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || log == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.PlanStarted:
					log.Infof("run %s: planning %d routes with %d units", e.RunID, e.Routes, e.Units)
				case events.AssignmentCommitted:
					log.Debugf("run %s: %s assigned to %s departing %s",
						e.RunID, e.Assignment.Tail, e.Assignment.RouteID,
						e.Assignment.Departure.Format(time.RFC3339))
				case events.RouteInfeasible:
					log.Warnf("run %s: no aircraft type in the fleet can serve %s", e.RunID, e.RouteID)
				case events.EntryUnserved:
					log.Debugf("run %s: %d passengers unserved on %s (%s)",
						e.RunID, e.Pax.Total(), e.RouteID, e.Reason)
				case events.PlanCompleted:
					log.Infof("run %s: completed with %d assignments, %d unserved passengers in %s",
						e.RunID, e.Assignments, e.UnservedPax, e.Elapsed)
				}
			}
		}
	}()
	return done
}
