package metrics

import coremetrics "github.com/enginetwin/enginetwin/core/metrics"

// MultiSink fans telemetry events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSample forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordSample(ev coremetrics.SampleEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSample(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSession forwards session transitions.
func (m *MultiSink) RecordSession(ev coremetrics.SessionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSession(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordDatasetLoad forwards dataset load events to sinks that record them.
func (m *MultiSink) RecordDatasetLoad(ev coremetrics.DatasetLoadEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.DatasetLoadRecorder); ok {
			if err := rec.RecordDatasetLoad(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
