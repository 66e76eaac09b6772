package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedSample marks an inbound payload whose energy or temperature
// field is missing or non-numeric. On the stream it is fatal to the session.
var ErrMalformedSample = errors.New("malformed sample")

// ParseSample decodes one inbound telemetry payload. Both fields are
// required; the legacy short key "temp" is accepted for temperature.
func ParseSample(payload []byte) (Sample, error) {
	var msg struct {
		Energy      *float64 `json:"energy"`
		Temperature *float64 `json:"temperature"`
		Temp        *float64 `json:"temp"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Sample{}, fmt.Errorf("%w: %v", ErrMalformedSample, err)
	}
	if msg.Temperature == nil {
		msg.Temperature = msg.Temp
	}
	if msg.Energy == nil || msg.Temperature == nil {
		return Sample{}, fmt.Errorf("%w: energy and temperature are required", ErrMalformedSample)
	}
	return Sample{Energy: *msg.Energy, Temperature: *msg.Temperature}, nil
}
