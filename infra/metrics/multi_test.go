package metrics

import (
	"errors"
	"testing"

	coremetrics "github.com/enginetwin/enginetwin/core/metrics"
)

type countingSink struct {
	samples  int
	sessions int
	loads    int
	err      error
}

func (c *countingSink) RecordSample(coremetrics.SampleEvent) error {
	c.samples++
	return c.err
}

func (c *countingSink) RecordSession(coremetrics.SessionEvent) error {
	c.sessions++
	return c.err
}

func (c *countingSink) RecordDatasetLoad(coremetrics.DatasetLoadEvent) error {
	c.loads++
	return c.err
}

func TestMultiSink_FansOut(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	m := NewMultiSink(a, b)

	if err := m.RecordSample(coremetrics.SampleEvent{}); err != nil {
		t.Fatalf("sample: %v", err)
	}
	if err := m.RecordSession(coremetrics.SessionEvent{}); err != nil {
		t.Fatalf("session: %v", err)
	}
	if err := m.RecordDatasetLoad(coremetrics.DatasetLoadEvent{}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if a.samples != 1 || b.samples != 1 || a.sessions != 1 || b.sessions != 1 || a.loads != 1 || b.loads != 1 {
		t.Fatalf("events not fanned out: %+v %+v", a, b)
	}
}

func TestMultiSink_ReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	a := &countingSink{err: boom}
	b := &countingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordSample(coremetrics.SampleEvent{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if b.samples != 0 {
		t.Fatalf("second sink should not run after error")
	}
}

func TestMultiSink_SkipsNonLoadRecorders(t *testing.T) {
	m := NewMultiSink(coremetrics.NopSink{})
	if err := m.RecordDatasetLoad(coremetrics.DatasetLoadEvent{}); err != nil {
		t.Fatalf("load: %v", err)
	}
}
