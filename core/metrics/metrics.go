package metrics

import (
	"time"

	"github.com/enginetwin/enginetwin/core/model"
)

// SampleEvent represents one ingested telemetry sample with its analytics.
type SampleEvent struct {
	Sample    model.Sample
	Result    model.AnalyticsResult
	SessionID string
	Source    string
	Time      time.Time
}

// SessionEvent captures a stream session lifecycle transition.
type SessionEvent struct {
	SessionID string
	// Opened is true on accept, false on close.
	Opened bool
	Reason string
	Time   time.Time
}

// DatasetLoadEvent captures the outcome of a batch dataset load.
type DatasetLoadEvent struct {
	Path    string
	Rows    int
	Success bool
	Time    time.Time
}

// Sink records telemetry events for observability purposes.
type Sink interface {
	RecordSample(ev SampleEvent) error
	RecordSession(ev SessionEvent) error
}

// DatasetLoadRecorder records batch dataset loads. Sinks that do not care
// about the batch path simply do not implement it.
type DatasetLoadRecorder interface {
	RecordDatasetLoad(ev DatasetLoadEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordSample(SampleEvent) error   { return nil }
func (NopSink) RecordSession(SessionEvent) error { return nil }
