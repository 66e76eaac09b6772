package engine

import "fmt"

// Config holds the rolling-analytics tunables.
type Config struct {
	// WindowSize is the rolling window capacity in samples.
	WindowSize int `json:"window_size"`
	// OverheatMargin is added to the latest temperature to predict overheat.
	OverheatMargin float64 `json:"overheat_margin"`
	// OverheatThreshold raises the alert flag when the prediction exceeds it.
	OverheatThreshold float64 `json:"overheat_threshold"`
}

// SetDefaults applies the built-in heuristics where fields are unset.
func (c *Config) SetDefaults() {
	if c.WindowSize == 0 {
		c.WindowSize = DefaultWindowSize
	}
	if c.OverheatMargin == 0 {
		c.OverheatMargin = DefaultOverheatMargin
	}
	if c.OverheatThreshold == 0 {
		c.OverheatThreshold = DefaultOverheatThreshold
	}
}

// Validate checks the tunables are usable.
func (c Config) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("window_size must be positive, got %d", c.WindowSize)
	}
	if c.OverheatThreshold <= 0 {
		return fmt.Errorf("overheat_threshold must be positive, got %g", c.OverheatThreshold)
	}
	return nil
}
