package metrics

import coremetrics "github.com/kilianp07/fleetplan/core/metrics"

// MultiSink fans planning records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlanRun forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordPlanRun(run coremetrics.PlanRun) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlanRun(run); err != nil {
			return err
		}
	}
	return nil
}

// RecordAssignments forwards the records to all sinks.
func (m *MultiSink) RecordAssignments(recs []coremetrics.AssignmentRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignments(recs); err != nil {
			return err
		}
	}
	return nil
}

// RecordFleetSize forwards fleet size metrics when supported by the sink.
func (m *MultiSink) RecordFleetSize(size int) error {
	for _, s := range m.Sinks {
		if fr, ok := s.(coremetrics.FleetSizeRecorder); ok {
			if err := fr.RecordFleetSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}
