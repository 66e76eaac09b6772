package main

import (
	"math"
	"math/rand"
	"time"
)

// EngineModel produces synthetic telemetry: energy and temperature follow a
// slow sinusoid with noise, and an occasional overheat excursion pushes the
// temperature past the alert threshold for a few samples.
type EngineModel struct {
	BaseEnergy   float64
	BaseTemp     float64
	Swing        float64
	Noise        float64
	OverheatPct  float64 // probability per sample of starting an excursion
	OverheatBump float64 // temperature added during an excursion

	rng      *rand.Rand
	phase    float64
	overheat int // samples left in the current excursion
}

// NewEngineModel seeds the model from the current time.
func NewEngineModel(cfg Config) *EngineModel {
	return &EngineModel{
		BaseEnergy:   cfg.BaseEnergy,
		BaseTemp:     cfg.BaseTemp,
		Swing:        cfg.Swing,
		Noise:        cfg.Noise,
		OverheatPct:  cfg.OverheatPct,
		OverheatBump: cfg.OverheatBump,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Step advances the model one tick and returns the next reading.
func (m *EngineModel) Step() (energy, temperature float64) {
	m.phase += 2 * math.Pi / 120 // two minute period at one sample per second
	energy = m.BaseEnergy + m.Swing*math.Sin(m.phase) + m.rng.NormFloat64()*m.Noise
	temperature = m.BaseTemp + m.Swing/2*math.Sin(m.phase/3) + m.rng.NormFloat64()*m.Noise

	if m.overheat == 0 && m.rng.Float64() < m.OverheatPct {
		m.overheat = 5 + m.rng.Intn(10)
	}
	if m.overheat > 0 {
		temperature += m.OverheatBump
		m.overheat--
	}
	return energy, temperature
}
