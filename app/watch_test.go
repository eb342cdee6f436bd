package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kilianp07/fleetplan/core/events"
	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/internal/eventbus"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Debugf(format string, args ...any) { r.record(format, args...) }
func (r *recordingLogger) Debugw(msg string, _ map[string]any) {
	r.record("%s", msg)
}
func (r *recordingLogger) Infof(format string, args ...any)  { r.record(format, args...) }
func (r *recordingLogger) Warnf(format string, args ...any)  { r.record(format, args...) }
func (r *recordingLogger) Errorf(format string, args ...any) { r.record(format, args...) }

func (r *recordingLogger) contains(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range r.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func TestWatchProgressLogsRunEvents(t *testing.T) {
	bus := eventbus.New()
	log := &recordingLogger{}
	done := WatchProgress(context.Background(), bus, log)

	bus.Publish(events.PlanStarted{RunID: "run-1", Routes: 2, Units: 3})
	bus.Publish(events.AssignmentCommitted{RunID: "run-1", Assignment: model.FlightAssignment{
		ID: "a1", Tail: "HB-JCA", RouteID: "LSZH-KJFK",
		Departure: time.Date(2026, time.March, 2, 6, 0, 0, 0, time.UTC),
	}})
	bus.Publish(events.RouteInfeasible{RunID: "run-1", RouteID: "LSZH-YSSY"})
	bus.Publish(events.EntryUnserved{RunID: "run-1", RouteID: "LSZH-KJFK", Reason: "capacity",
		Pax: model.CabinCounts{Economy: 40}})
	bus.Publish(events.PlanCompleted{RunID: "run-1", Assignments: 1, UnservedPax: 40, Elapsed: time.Second})
	bus.Close()
	<-done

	for _, want := range []string{
		"planning 2 routes with 3 units",
		"HB-JCA assigned to LSZH-KJFK",
		"can serve LSZH-YSSY",
		"40 passengers unserved on LSZH-KJFK",
		"completed with 1 assignments",
	} {
		if !log.contains(want) {
			t.Errorf("missing log line containing %q, got %v", want, log.lines)
		}
	}
}

func TestWatchProgressStopsOnCancel(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := WatchProgress(ctx, bus, &recordingLogger{})
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not stop on cancel")
	}
}

func TestWatchProgressNilBusIsNoop(t *testing.T) {
	done := WatchProgress(context.Background(), nil, &recordingLogger{})
	select {
	case <-done:
	default:
		t.Fatalf("expected closed channel for nil bus")
	}
}
