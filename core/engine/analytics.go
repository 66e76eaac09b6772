package engine

import (
	"gonum.org/v1/gonum/stat"

	"github.com/enginetwin/enginetwin/core/model"
)

// The rolling-analytics model is three fixed heuristics. They have no
// calibration source; treat them as tunable defaults, not physics.
const (
	// DefaultWindowSize matches one sample per second over a minute.
	DefaultWindowSize = 60
	// DefaultOverheatMargin is added to the latest temperature to project
	// the short-term peak.
	DefaultOverheatMargin = 50
	// DefaultOverheatThreshold is the projected temperature above which the
	// alert flag is raised.
	DefaultOverheatThreshold = 550
)

// Analytics computes derived metrics from a window snapshot and the latest
// sample. The zero value is unusable; use NewAnalytics.
type Analytics struct {
	margin    float64
	threshold float64
}

// NewAnalytics builds an Analytics with the given overheat margin and alert
// threshold.
func NewAnalytics(margin, threshold float64) Analytics {
	return Analytics{margin: margin, threshold: threshold}
}

// Compute derives the rolling metrics for the latest sample. An empty window
// yields an average temperature of 0, the documented no-history case.
func (a Analytics) Compute(window []model.Sample, latest model.Sample) model.AnalyticsResult {
	avg := 0.0
	if len(window) > 0 {
		temps := make([]float64, len(window))
		for i, s := range window {
			temps[i] = s.Temperature
		}
		avg = stat.Mean(temps, nil)
	}
	predicted := latest.Temperature + a.margin
	return model.AnalyticsResult{
		Energy:            latest.Energy,
		Temperature:       latest.Temperature,
		AvgTemperature:    avg,
		PredictedOverheat: predicted,
		Alert:             predicted > a.threshold,
	}
}

// MaxEnergy returns the maximum energy over the window, or 0 when empty.
// Used by the dashboard view.
func MaxEnergy(window []model.Sample) float64 {
	max := 0.0
	for i, s := range window {
		if i == 0 || s.Energy > max {
			max = s.Energy
		}
	}
	return max
}
