package model

import (
	"errors"
	"testing"
)

func TestParseSample_Valid(t *testing.T) {
	s, err := ParseSample([]byte(`{"energy": 520, "temperature": 310.5}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Energy != 520 || s.Temperature != 310.5 {
		t.Fatalf("unexpected sample: %+v", s)
	}
}

func TestParseSample_LegacyTempKey(t *testing.T) {
	s, err := ParseSample([]byte(`{"energy": 500, "temp": 300}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Temperature != 300 {
		t.Fatalf("temperature = %v, want 300", s.Temperature)
	}
}

func TestParseSample_MissingField(t *testing.T) {
	for _, payload := range []string{
		`{"energy": 500}`,
		`{"temperature": 300}`,
		`{}`,
	} {
		if _, err := ParseSample([]byte(payload)); !errors.Is(err, ErrMalformedSample) {
			t.Fatalf("payload %s: err = %v, want ErrMalformedSample", payload, err)
		}
	}
}

func TestParseSample_NonNumeric(t *testing.T) {
	_, err := ParseSample([]byte(`{"energy": 500, "temperature": "hot"}`))
	if !errors.Is(err, ErrMalformedSample) {
		t.Fatalf("err = %v, want ErrMalformedSample", err)
	}
}

func TestParseSample_Garbage(t *testing.T) {
	if _, err := ParseSample([]byte(`not json`)); !errors.Is(err, ErrMalformedSample) {
		t.Fatalf("err = %v, want ErrMalformedSample", err)
	}
}
