package mqtt

import (
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/enginetwin/enginetwin/core/engine"
	coremetrics "github.com/enginetwin/enginetwin/core/metrics"
	"github.com/enginetwin/enginetwin/core/model"
	"github.com/enginetwin/enginetwin/infra/logger"
)

type mockToken struct{}

func (t *mockToken) Wait() bool                       { return true }
func (t *mockToken) WaitTimeout(_ time.Duration) bool { return true }
func (t *mockToken) Error() error                     { return nil }
func (t *mockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type mockClient struct {
	disconnected bool
	published    []publishCall
}

type publishCall struct {
	topic   string
	payload []byte
}

func (m *mockClient) IsConnected() bool       { return true }
func (m *mockClient) Connect() paho.Token     { return &mockToken{} }
func (m *mockClient) Disconnect(quiesce uint) { m.disconnected = true }
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	m.published = append(m.published, publishCall{topic: topic, payload: payload.([]byte)})
	return &mockToken{}
}
func (m *mockClient) Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token {
	return &mockToken{}
}

type mockMessage struct {
	topic   string
	payload []byte
}

func (m *mockMessage) Duplicate() bool   { return false }
func (m *mockMessage) Qos() byte         { return 0 }
func (m *mockMessage) Retained() bool    { return false }
func (m *mockMessage) Topic() string     { return m.topic }
func (m *mockMessage) MessageID() uint16 { return 0 }
func (m *mockMessage) Payload() []byte   { return m.payload }
func (m *mockMessage) Ack()              {}

func newTestConnector(cli pahoClient) (*Connector, *engine.State) {
	cfg := Config{TelemetryTopic: "engine/telemetry", ResultTopic: "engine/analytics"}
	ecfg := engine.Config{}
	ecfg.SetDefaults()
	state := engine.NewState(ecfg)
	return &Connector{
		cli:    cli,
		cfg:    cfg,
		state:  state,
		sink:   coremetrics.NopSink{},
		logger: logger.NopLogger{},
	}, state
}

func TestOnTelemetry_IngestsAndPublishesAnalytics(t *testing.T) {
	cli := &mockClient{}
	c, state := newTestConnector(cli)

	c.onTelemetry(nil, &mockMessage{topic: "engine/telemetry", payload: []byte(`{"energy": 520, "temperature": 310}`)})

	if got := state.Current().Temperature; got != 310 {
		t.Fatalf("temperature = %v, want 310", got)
	}
	if len(cli.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(cli.published))
	}
	if cli.published[0].topic != "engine/analytics" {
		t.Fatalf("topic = %s", cli.published[0].topic)
	}
}

func TestOnTelemetry_DropsMalformedPayload(t *testing.T) {
	cli := &mockClient{}
	c, state := newTestConnector(cli)

	c.onTelemetry(nil, &mockMessage{topic: "engine/telemetry", payload: []byte(`{"energy": "lots"}`)})

	if got := state.Current(); got != model.InitialSample {
		t.Fatalf("state mutated by malformed payload: %+v", got)
	}
	if len(cli.published) != 0 {
		t.Fatalf("published %d messages, want 0", len(cli.published))
	}
}

func TestOnTelemetry_NoResultTopic(t *testing.T) {
	cli := &mockClient{}
	c, _ := newTestConnector(cli)
	c.cfg.ResultTopic = ""

	c.onTelemetry(nil, &mockMessage{payload: []byte(`{"energy": 500, "temperature": 300}`)})
	if len(cli.published) != 0 {
		t.Fatalf("published %d messages, want 0", len(cli.published))
	}
}

func TestClose_DisconnectsClient(t *testing.T) {
	cli := &mockClient{}
	c, _ := newTestConnector(cli)
	c.Close()
	if !cli.disconnected {
		t.Errorf("expected Disconnect() to be called")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Enabled: true}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without broker")
	}
	cfg.Broker = "tcp://localhost:1883"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	disabled := Config{}
	if err := disabled.Validate(); err != nil {
		t.Fatalf("disabled config must validate: %v", err)
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()
	if cfg.TelemetryTopic != "engine/telemetry" || cfg.ResultTopic != "engine/analytics" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ClientID == "" {
		t.Fatal("client id default missing")
	}
}
