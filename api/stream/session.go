package stream

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/enginetwin/enginetwin/core/metrics"
	"github.com/enginetwin/enginetwin/core/model"
	"github.com/enginetwin/enginetwin/infra/logger"
)

const (
	// writeTimeout is the deadline for sending one analytics response.
	writeTimeout = 10 * time.Second

	readBufSize  = 1024
	writeBufSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  readBufSize,
	WriteBufferSize: writeBufSize,
	// Allow all origins; origin policy belongs to the reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Ingester is the slice of the engine state a session mutates.
type Ingester interface {
	Ingest(model.Sample) model.AnalyticsResult
}

// Handler upgrades HTTP requests to WebSocket telemetry sessions. Every
// session shares the same Ingester, so concurrent sessions feed one twin.
type Handler struct {
	state Ingester
	sink  metrics.Sink
	log   logger.Logger
}

// NewHandler builds the stream handler. A nil sink disables recording.
func NewHandler(state Ingester, sink metrics.Sink, log logger.Logger) *Handler {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{state: state, sink: sink, log: log}
}

// ServeHTTP upgrades the connection and runs the session loop until the
// peer disconnects or sends a malformed payload. Blocks for the session
// lifetime; each connection gets its own goroutine from net/http.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}
	s := &session{
		id:    uuid.NewString(),
		conn:  conn,
		state: h.state,
		sink:  h.sink,
		log:   h.log,
	}
	s.run()
}

// session is one duplex connection's lifetime from accept to close. The loop
// is half-duplex on purpose: response N is written before input N+1 is read,
// so responses are per-connection FIFO.
type session struct {
	id    string
	conn  *websocket.Conn
	state Ingester
	sink  metrics.Sink
	log   logger.Logger
}

func (s *session) run() {
	s.log.Infof("session %s opened from %s", s.id, s.conn.RemoteAddr())
	if err := s.sink.RecordSession(metrics.SessionEvent{SessionID: s.id, Opened: true, Time: time.Now()}); err != nil {
		s.log.Warnf("record session open: %v", err)
	}

	reason := s.loop()

	s.log.Infof("session %s closed: %s", s.id, reason)
	if err := s.sink.RecordSession(metrics.SessionEvent{SessionID: s.id, Reason: reason, Time: time.Now()}); err != nil {
		s.log.Warnf("record session close: %v", err)
	}
	if err := s.conn.Close(); err != nil {
		s.log.Debugf("session %s: close: %v", s.id, err)
	}
}

// loop runs the per-message cycle and returns the close reason. Any failure
// ends the session; there is no resync and no retry. A malformed payload
// leaves the shared state untouched because parsing happens before Ingest.
func (s *session) loop() string {
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return "peer disconnect"
			}
			s.log.Warnf("session %s: read: %v", s.id, err)
			return "transport error"
		}

		sample, err := model.ParseSample(payload)
		if err != nil {
			s.log.Errorf("session %s: %v", s.id, err)
			return "malformed input"
		}

		res := s.state.Ingest(sample)
		if err := s.sink.RecordSample(metrics.SampleEvent{
			Sample:    sample,
			Result:    res,
			SessionID: s.id,
			Source:    "websocket",
			Time:      time.Now(),
		}); err != nil {
			s.log.Warnf("record sample: %v", err)
		}

		if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return "transport error"
		}
		if err := s.conn.WriteJSON(res); err != nil {
			s.log.Warnf("session %s: write: %v", s.id, err)
			return "transport error"
		}
	}
}
