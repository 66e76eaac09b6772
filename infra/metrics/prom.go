package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/enginetwin/enginetwin/core/metrics"
)

// PromSink records ingested telemetry in Prometheus metrics.
type PromSink struct {
	samples     *prometheus.CounterVec
	sessions    *prometheus.CounterVec
	temperature prometheus.Gauge
	energy      prometheus.Gauge
	alert       prometheus.Gauge
	loads       *prometheus.CounterVec
}

// NewPromSink registers telemetry metrics on the default Prometheus registerer.
// The Prometheus server exposing them is started separately via StartPromServer.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	samples := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_samples_ingested_total",
		Help: "Total number of telemetry samples ingested",
	}, []string{"source", "alert"})
	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_stream_sessions_total",
		Help: "Stream session transitions by direction",
	}, []string{"event"})
	temperature := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "engine_temperature_celsius",
		Help: "Latest engine temperature",
	})
	energy := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "engine_energy_kw",
		Help: "Latest engine power draw",
	})
	alert := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "engine_overheat_alert",
		Help: "1 when the overheat prediction exceeds the alert threshold",
	})
	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_dataset_loads_total",
		Help: "Batch dataset load attempts",
	}, []string{"success"})

	s := &PromSink{samples: samples, sessions: sessions, temperature: temperature, energy: energy, alert: alert, loads: loads}
	collectors := []prometheus.Collector{samples, sessions, temperature, energy, alert, loads}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				s.samples = are.ExistingCollector.(*prometheus.CounterVec)
			case 1:
				s.sessions = are.ExistingCollector.(*prometheus.CounterVec)
			case 2:
				s.temperature = are.ExistingCollector.(prometheus.Gauge)
			case 3:
				s.energy = are.ExistingCollector.(prometheus.Gauge)
			case 4:
				s.alert = are.ExistingCollector.(prometheus.Gauge)
			case 5:
				s.loads = are.ExistingCollector.(*prometheus.CounterVec)
			}
		}
	}
	return s, nil
}

// RecordSample updates the sample counter and the latest-state gauges.
func (s *PromSink) RecordSample(ev coremetrics.SampleEvent) error {
	s.samples.WithLabelValues(ev.Source, strconv.FormatBool(ev.Result.Alert)).Inc()
	s.temperature.Set(ev.Sample.Temperature)
	s.energy.Set(ev.Sample.Energy)
	if ev.Result.Alert {
		s.alert.Set(1)
	} else {
		s.alert.Set(0)
	}
	return nil
}

// RecordSession counts session opens and closes.
func (s *PromSink) RecordSession(ev coremetrics.SessionEvent) error {
	event := "closed"
	if ev.Opened {
		event = "opened"
	}
	s.sessions.WithLabelValues(event).Inc()
	return nil
}

// RecordDatasetLoad counts batch load attempts by outcome.
func (s *PromSink) RecordDatasetLoad(ev coremetrics.DatasetLoadEvent) error {
	s.loads.WithLabelValues(strconv.FormatBool(ev.Success)).Inc()
	return nil
}
