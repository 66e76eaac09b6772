package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/enginetwin/enginetwin/api/engine"
	"github.com/enginetwin/enginetwin/api/stream"
	"github.com/enginetwin/enginetwin/config"
	"github.com/enginetwin/enginetwin/core/degradation"
	coreengine "github.com/enginetwin/enginetwin/core/engine"
	coremetrics "github.com/enginetwin/enginetwin/core/metrics"
	"github.com/enginetwin/enginetwin/core/model"
	"github.com/enginetwin/enginetwin/infra/dataset"
	"github.com/enginetwin/enginetwin/infra/logger"
	"github.com/enginetwin/enginetwin/infra/metrics"
	"github.com/enginetwin/enginetwin/infra/mqtt"
	"github.com/enginetwin/enginetwin/internal/eventbus"
)

// AlertEvent is published on the bus whenever the overheat flag rises.
type AlertEvent struct {
	Sample    model.Sample
	Predicted float64
	Source    string
	Time      time.Time
}

// Service wires the engine twin, transports, and observability together.
type Service struct {
	state     *coreengine.State
	handler   http.Handler
	connector *mqtt.Connector
	bus       *eventbus.Bus[AlertEvent]
	log       logger.Logger

	addr        string
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	state := coreengine.NewState(cfg.Engine)

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New[AlertEvent]()
	ingester := &instrumentedState{state: state, bus: bus}

	var result *degradation.Result
	reason := "dataset path not configured"
	if cfg.Dataset.Path != "" {
		r := dataset.Summarize(cfg.Dataset.Path)
		result = &r
		if rec, ok := sink.(coremetrics.DatasetLoadRecorder); ok {
			ev := coremetrics.DatasetLoadEvent{Path: cfg.Dataset.Path, Success: r.OK(), Time: time.Now()}
			if r.OK() {
				ev.Rows = r.Summary.Rows
			}
			if err := rec.RecordDatasetLoad(ev); err != nil {
				logg.Warnf("record dataset load: %v", err)
			}
		}
		if r.OK() {
			logg.Infof("dataset %s loaded: %d rows, %d units", cfg.Dataset.Path, r.Summary.Rows, r.Summary.Units)
		} else {
			logg.Errorf("dataset %s: %s", cfg.Dataset.Path, r.Err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/ws/engine", stream.NewHandler(ingester, sink, logger.New("stream")))
	mux.Handle("/", engine.New(state, result, reason, logger.New("api")))

	svc := &Service{
		state:       state,
		handler:     mux,
		bus:         bus,
		log:         logg,
		addr:        cfg.Server.Addr,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}

	if cfg.MQTT.Enabled {
		conn, err := mqtt.NewConnector(cfg.MQTT, ingester, sink)
		if err != nil {
			return nil, fmt.Errorf("mqtt connector: %w", err)
		}
		svc.connector = conn
	}
	return svc, nil
}

// Handler exposes the HTTP surface, mainly for tests.
func (s *Service) Handler() http.Handler { return s.handler }

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	alerts := s.bus.Subscribe()
	go func() {
		for ev := range alerts {
			s.log.Warnf("overheat alert from %s: predicted %.1f at energy %.1f", ev.Source, ev.Predicted, ev.Sample.Energy)
		}
	}()

	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.addr, Handler: s.handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("server shutdown: %v", err)
		}
	}()
	s.log.Infof("listening on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.connector != nil {
		s.connector.Close()
	}
	s.bus.Close()
	return nil
}

// instrumentedState decorates State.Ingest with alert-event publication.
// Transports depend on the Ingester interface, so observability stays out of
// the core package.
type instrumentedState struct {
	state *coreengine.State
	bus   *eventbus.Bus[AlertEvent]

	mu        sync.Mutex
	lastAlert bool
}

func (i *instrumentedState) Ingest(sample model.Sample) model.AnalyticsResult {
	res := i.state.Ingest(sample)
	i.mu.Lock()
	rising := res.Alert && !i.lastAlert
	i.lastAlert = res.Alert
	i.mu.Unlock()
	// Publish on the rising edge only; a sustained overheat is one event.
	if rising {
		i.bus.Publish(AlertEvent{Sample: sample, Predicted: res.PredictedOverheat, Source: "ingest", Time: time.Now()})
	}
	return res
}
