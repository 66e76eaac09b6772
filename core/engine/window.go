package engine

import "github.com/enginetwin/enginetwin/core/model"

// Window is a fixed-capacity ring buffer holding the most recent samples in
// arrival order. Once full, each Push evicts the oldest sample.
// Window is not safe for concurrent use; State guards it with a mutex.
type Window struct {
	data  []model.Sample
	pos   int
	count int
}

// NewWindow creates a ring buffer with the given capacity.
// It panics if capacity is not positive; the capacity is fixed for the
// lifetime of the window.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		panic("engine: window capacity must be positive")
	}
	return &Window{data: make([]model.Sample, capacity)}
}

// Push appends a sample at the back of the window, evicting the oldest
// sample when the window is at capacity.
func (w *Window) Push(s model.Sample) {
	w.data[w.pos] = s
	w.pos = (w.pos + 1) % len(w.data)
	if w.count < len(w.data) {
		w.count++
	}
}

// Len returns the number of samples currently held.
func (w *Window) Len() int { return w.count }

// Cap returns the fixed capacity of the window.
func (w *Window) Cap() int { return len(w.data) }

// Snapshot returns a copy of the current contents, oldest first. The copy
// does not alias the window's backing storage.
func (w *Window) Snapshot() []model.Sample {
	if w.count == 0 {
		return nil
	}
	out := make([]model.Sample, w.count)
	if w.count < len(w.data) {
		copy(out, w.data[:w.count])
	} else {
		// Full ring: oldest element sits at pos.
		n := copy(out, w.data[w.pos:])
		copy(out[n:], w.data[:w.pos])
	}
	return out
}
