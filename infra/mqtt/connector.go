package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coremetrics "github.com/enginetwin/enginetwin/core/metrics"
	"github.com/enginetwin/enginetwin/core/model"
	"github.com/enginetwin/enginetwin/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT connector.
type Config struct {
	Enabled        bool        `json:"enabled"`
	Broker         string      `json:"broker"`
	ClientID       string      `json:"client_id"`
	Username       string      `json:"username"`
	Password       string      `json:"password"`
	TelemetryTopic string      `json:"telemetry_topic"`
	ResultTopic    string      `json:"result_topic"`
	QoS            byte        `json:"qos"`
	UseTLS         bool        `json:"use_tls"`
	ClientCert     string      `json:"client_cert"`
	ClientKey      string      `json:"client_key"`
	CABundle       string      `json:"ca_bundle"`
	TLSConfig      *tls.Config `json:"-"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "enginetwin-" + uuid.NewString()[:8]
	}
	if c.TelemetryTopic == "" {
		c.TelemetryTopic = "engine/telemetry"
	}
	if c.ResultTopic == "" {
		c.ResultTopic = "engine/analytics"
	}
}

// Validate checks mandatory fields when the connector is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("broker is required when mqtt ingest is enabled")
	}
	return nil
}

// Ingester is the slice of the engine state the connector mutates.
type Ingester interface {
	Ingest(model.Sample) model.AnalyticsResult
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

// Connector feeds telemetry arriving on an MQTT topic into the shared engine
// state and publishes the per-sample analytics on the result topic. It is a
// secondary ingest path beside the WebSocket stream; malformed payloads are
// dropped with a log line since there is no session to terminate.
type Connector struct {
	cli    pahoClient
	cfg    Config
	state  Ingester
	sink   coremetrics.Sink
	logger logger.Logger
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewConnector connects to the broker and subscribes to the telemetry topic.
// A nil sink disables recording.
func NewConnector(cfg Config, state Ingester, sink coremetrics.Sink) (*Connector, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	c := &Connector{cfg: cfg, state: state, sink: sink, logger: logger.New("mqtt_ingest")}
	opts.OnConnect = func(cli paho.Client) {
		c.logger.Infof("MQTT connected")
		if token := cli.Subscribe(cfg.TelemetryTopic, cfg.QoS, c.onTelemetry); token.Wait() && token.Error() != nil {
			c.logger.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		c.logger.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		c.logger.Warnf("reconnecting to MQTT broker")
	}

	// Assign before Connect: telemetry can arrive as soon as OnConnect
	// subscribes, and onTelemetry publishes through c.cli.
	c.cli = newMQTTClient(opts)
	if token := c.cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return c, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}
	return cfg, nil
}

func (c *Connector) onTelemetry(_ paho.Client, msg paho.Message) {
	sample, err := model.ParseSample(msg.Payload())
	if err != nil {
		c.logger.Errorf("drop telemetry on %s: %v", msg.Topic(), err)
		return
	}
	res := c.state.Ingest(sample)
	if err := c.sink.RecordSample(coremetrics.SampleEvent{
		Sample: sample,
		Result: res,
		Source: "mqtt",
		Time:   time.Now(),
	}); err != nil {
		c.logger.Warnf("record sample: %v", err)
	}
	if c.cfg.ResultTopic == "" {
		return
	}
	payload, err := json.Marshal(res)
	if err != nil {
		c.logger.Errorf("encode analytics: %v", err)
		return
	}
	if token := c.cli.Publish(c.cfg.ResultTopic, c.cfg.QoS, false, payload); token.Wait() && token.Error() != nil {
		c.logger.Errorf("publish analytics: %v", token.Error())
	}
}

// Close disconnects from the broker.
func (c *Connector) Close() {
	if c.cli != nil && c.cli.IsConnected() {
		c.cli.Disconnect(250)
	}
}
