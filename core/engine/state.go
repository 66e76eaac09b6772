package engine

import (
	"sync"

	"github.com/enginetwin/enginetwin/core/model"
)

// State is the process-wide engine twin: the latest accepted sample plus the
// rolling window of recent history. All stream sessions share one State, so
// the current-write, window-push, compute sequence runs under a single lock.
// A reader never observes a window whose last element differs from current.
type State struct {
	mu        sync.Mutex
	current   model.Sample
	window    *Window
	analytics Analytics
}

// NewState builds a State from the analytics tunables. The current sample
// starts at the documented initial value until the first ingest.
func NewState(cfg Config) *State {
	return &State{
		current:   model.InitialSample,
		window:    NewWindow(cfg.WindowSize),
		analytics: NewAnalytics(cfg.OverheatMargin, cfg.OverheatThreshold),
	}
}

// Ingest accepts one telemetry sample: it overwrites the current sample,
// pushes a copy into the window, and returns the analytics computed from the
// updated state. This is the only mutation path into the twin.
func (s *State) Ingest(sample model.Sample) model.AnalyticsResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sample
	s.window.Push(sample)
	return s.analytics.Compute(s.window.Snapshot(), s.current)
}

// Current returns the latest accepted sample.
func (s *State) Current() model.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// DashboardView is the derived read model for the presentation endpoint.
type DashboardView struct {
	Current        model.Sample
	AvgTemperature float64
	MaxEnergy      float64
	WindowLen      int
	Alert          bool
}

// Dashboard derives the presentation view from the current state. When the
// window is empty the averages and the alert flag stay at their zero values.
func (s *State) Dashboard() DashboardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.window.Snapshot()
	v := DashboardView{Current: s.current, WindowLen: len(snap)}
	if len(snap) == 0 {
		return v
	}
	res := s.analytics.Compute(snap, s.current)
	v.AvgTemperature = res.AvgTemperature
	v.MaxEnergy = MaxEnergy(snap)
	v.Alert = res.Alert
	return v
}
