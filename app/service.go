// Package app wires the planning core to its configuration, observability
// and output adapters.
package app

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/fleetplan/config"
	"github.com/kilianp07/fleetplan/core/audit"
	"github.com/kilianp07/fleetplan/core/capability"
	"github.com/kilianp07/fleetplan/core/demand"
	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/refdata"
	"github.com/kilianp07/fleetplan/core/scheduler"
	"github.com/kilianp07/fleetplan/infra/logger"
	"github.com/kilianp07/fleetplan/infra/metrics"
	"github.com/kilianp07/fleetplan/infra/mqtt"
	"github.com/kilianp07/fleetplan/internal/eventbus"
)

// Planner orchestrates a planning run: demand estimation, fleet scheduling,
// validation and publication.
type Planner struct {
	cfg       *config.Config
	log       logger.Logger
	bus       eventbus.EventBus
	snap      *refdata.Snapshot
	estimator demand.Estimator
	sched     *scheduler.Scheduler
	publisher *mqtt.SchedulePublisher
}

// ExcludedRoute names a route left out of a run and why.
type ExcludedRoute struct {
	RouteID string `json:"route_id"`
	Reason  string `json:"reason"`
}

// RunReport is the full outcome of one planning run.
type RunReport struct {
	Result   scheduler.Result `json:"result"`
	Audit    audit.Report     `json:"audit"`
	Excluded []ExcludedRoute  `json:"excluded"`
}

// New creates a Planner from the configuration.
func New(cfg *config.Config) (*Planner, error) {
	logg := logger.NewWithConfig("planner", cfg.Logging.Level, cfg.Logging.Format)
	snap, err := refdata.Load(cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("reference data: %w", err)
	}
	sink, err := metrics.NewSink(cfg.Metrics)
	if err != nil {
		return nil, err
	}
	bus := eventbus.New()
	matcher := capability.NewMatcher(cfg.Capability)
	sched, err := scheduler.New(cfg.Scheduler, matcher, logg, bus, sink)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	p := &Planner{
		cfg:       cfg,
		log:       logg,
		bus:       bus,
		snap:      snap,
		estimator: demand.NewEstimator(cfg.Demand),
		sched:     sched,
	}
	if cfg.Publisher.Enabled {
		pub, err := mqtt.NewSchedulePublisher(cfg.Publisher)
		if err != nil {
			return nil, fmt.Errorf("schedule publisher: %w", err)
		}
		p.publisher = pub
	}
	return p, nil
}

// Snapshot exposes the loaded reference data.
func (p *Planner) Snapshot() *refdata.Snapshot { return p.snap }

// Bus exposes the run event bus for subscribers.
func (p *Planner) Bus() eventbus.EventBus { return p.bus }

// Run executes one full planning run over the given horizon.
func (p *Planner) Run(horizon model.Horizon) (RunReport, error) {
	if err := horizon.Validate(); err != nil {
		return RunReport{}, err
	}
	set, err := demand.LoadIndicators(p.cfg.Indicators)
	if err != nil {
		return RunReport{}, fmt.Errorf("indicators: %w", err)
	}

	table, excluded := p.buildDemandTable(horizon, set)
	res, err := p.sched.Schedule(p.snap, table, horizon)
	if err != nil {
		return RunReport{}, err
	}
	rep := audit.Validate(res.Schedule, p.snap)
	if !rep.Valid {
		p.log.Errorf("run %s: validator found %d violations", res.Schedule.RunID, len(rep.Violations))
	}
	if p.publisher != nil {
		if err := p.publisher.Publish(res); err != nil {
			p.log.Errorf("run %s: publish schedule: %v", res.Schedule.RunID, err)
		}
	}
	return RunReport{Result: res, Audit: rep, Excluded: excluded}, nil
}

// buildDemandTable estimates demand for every route and day. Routes with
// missing indicators are excluded from the run rather than treated as zero
// demand, which would starve them in later runs too.
func (p *Planner) buildDemandTable(horizon model.Horizon, set demand.IndicatorSet) ([]model.DemandEstimate, []ExcludedRoute) {
	results := p.estimator.EstimateAll(p.snap, horizon, set)
	var table []model.DemandEstimate
	excludedBy := make(map[string]string)
	for _, r := range results {
		if r.Err != nil {
			var ide *demand.InsufficientDataError
			if errors.As(r.Err, &ide) {
				p.log.Warnf("route %s excluded: %v", r.RouteID, r.Err)
			} else {
				p.log.Errorf("route %s excluded: %v", r.RouteID, r.Err)
			}
			excludedBy[r.RouteID] = r.Err.Error()
			continue
		}
		table = append(table, r.Estimate)
	}
	ids := make([]string, 0, len(excludedBy))
	for id := range excludedBy {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	excluded := make([]ExcludedRoute, 0, len(ids))
	for _, id := range ids {
		excluded = append(excluded, ExcludedRoute{RouteID: id, Reason: excludedBy[id]})
	}
	return table, excluded
}

// EstimateDay estimates demand for every route for a single day, keyed by
// route identifier. Used by the demand command; no scheduling happens.
func (p *Planner) EstimateDay(day time.Time) (map[string]model.DemandEstimate, []ExcludedRoute, error) {
	set, err := demand.LoadIndicators(p.cfg.Indicators)
	if err != nil {
		return nil, nil, fmt.Errorf("indicators: %w", err)
	}
	horizon := model.Horizon{Start: day, Days: 1}
	table, excluded := p.buildDemandTable(horizon, set)
	estimates := make(map[string]model.DemandEstimate, len(table))
	for _, est := range table {
		estimates[est.RouteID] = est
	}
	return estimates, excluded, nil
}

// Close releases the resources held by the planner.
func (p *Planner) Close() error {
	p.bus.Close()
	if p.publisher != nil {
		p.publisher.Close()
	}
	return nil
}
