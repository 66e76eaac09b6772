package model

// Sample is one telemetry reading from the engine twin. Values are copied
// into the rolling window on ingest, so a Sample never aliases mutable state.
type Sample struct {
	// Energy is the instantaneous power draw in kW.
	Energy float64 `json:"energy"`
	// Temperature is the engine temperature in degrees Celsius.
	Temperature float64 `json:"temperature"`
}

// InitialSample is the state reported before any telemetry has arrived.
var InitialSample = Sample{Energy: 500, Temperature: 300}

// AnalyticsResult carries the derived metrics computed on every ingested
// sample. It is recomputed per message and never stored.
type AnalyticsResult struct {
	Energy            float64 `json:"energy"`
	Temperature       float64 `json:"temperature"`
	AvgTemperature    float64 `json:"avg_temp"`
	PredictedOverheat float64 `json:"predicted_overheat"`
	Alert             bool    `json:"alert"`
}
