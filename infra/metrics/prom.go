package metrics

import (
	coremetrics "github.com/kilianp07/fleetplan/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records planning results in Prometheus metrics.
type PromSink struct {
	assignments *prometheus.CounterVec
	unserved    prometheus.Counter
	infeasible  prometheus.Counter
	fleet       prometheus.Gauge
	duration    prometheus.Histogram
}

// NewPromSink registers planner metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_assignments_total",
		Help: "Total number of committed flight assignments",
	}, []string{"route_id"})
	unserved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_unserved_passengers_total",
		Help: "Total passenger demand left unserved by planning runs",
	})
	infeasible := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_infeasible_routes_total",
		Help: "Routes no aircraft type in the fleet could serve",
	})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planner_fleet_units",
		Help: "Operational fleet units considered by the last run",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_run_duration_seconds",
		Help:    "Wall time of a planning run",
		Buckets: prometheus.DefBuckets,
	})

	s := &PromSink{assignments: assignments, unserved: unserved, infeasible: infeasible, fleet: fleet, duration: duration}
	collectors := map[string]prometheus.Collector{
		"assignments": assignments,
		"unserved":    unserved,
		"infeasible":  infeasible,
		"fleet":       fleet,
		"duration":    duration,
	}
	for name, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch name {
			case "assignments":
				s.assignments = are.ExistingCollector.(*prometheus.CounterVec)
			case "unserved":
				s.unserved = are.ExistingCollector.(prometheus.Counter)
			case "infeasible":
				s.infeasible = are.ExistingCollector.(prometheus.Counter)
			case "fleet":
				s.fleet = are.ExistingCollector.(prometheus.Gauge)
			case "duration":
				s.duration = are.ExistingCollector.(prometheus.Histogram)
			}
		}
	}
	return s, nil
}

// RecordPlanRun updates the run-level metrics.
func (s *PromSink) RecordPlanRun(run coremetrics.PlanRun) error {
	s.unserved.Add(float64(run.UnservedPax))
	s.infeasible.Add(float64(run.InfeasibleRoutes))
	s.fleet.Set(float64(run.FleetSize))
	s.duration.Observe(run.Elapsed.Seconds())
	return nil
}

// RecordAssignments increments the per-route assignment counter.
func (s *PromSink) RecordAssignments(recs []coremetrics.AssignmentRecord) error {
	for _, r := range recs {
		s.assignments.WithLabelValues(r.RouteID).Inc()
	}
	return nil
}

// RecordFleetSize sets the fleet gauge outside of a planning run.
func (s *PromSink) RecordFleetSize(size int) error {
	s.fleet.Set(float64(size))
	return nil
}
