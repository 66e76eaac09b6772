package main

import (
	"fmt"
	"time"
)

// Config holds the simulator flags.
type Config struct {
	URL          string
	Interval     time.Duration
	Duration     time.Duration
	BaseEnergy   float64
	BaseTemp     float64
	Swing        float64
	Noise        float64
	OverheatPct  float64
	OverheatBump float64
	Verbose      bool
}

// Validate checks the flag values.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.OverheatPct < 0 || c.OverheatPct > 1 {
		return fmt.Errorf("overheat-pct must be in [0,1]")
	}
	return nil
}
