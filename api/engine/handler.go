package engine

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/enginetwin/enginetwin/core/degradation"
	coreengine "github.com/enginetwin/enginetwin/core/engine"
	"github.com/enginetwin/enginetwin/infra/logger"
)

// Handler serves the read-side HTTP endpoints of the twin: the latest
// sample, the batch dataset summary, and the HTML dashboard.
type Handler struct {
	state   *coreengine.State
	dataset *degradation.Result
	reason  string
	log     logger.Logger
	mux     *http.ServeMux
}

// New builds the handler. dataset is nil when no dataset source was
// configured at startup; reason then explains the absence to callers.
func New(state *coreengine.State, dataset *degradation.Result, reason string, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	h := &Handler{state: state, dataset: dataset, reason: reason, log: log, mux: http.NewServeMux()}
	h.mux.HandleFunc("/engine", h.current)
	h.mux.HandleFunc("/dataset-metrics", h.datasetMetrics)
	h.mux.HandleFunc("/dashboard", h.dashboard)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// current returns GET /engine, the latest accepted sample.
func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.state.Current())
}

// DatasetMetricsResponse is the payload for GET /dataset-metrics.
type DatasetMetricsResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Summary   any    `json:"summary,omitempty"`
}

// datasetMetrics returns GET /dataset-metrics, the startup-loaded
// degradation summary. A failed load still answers with available:true and
// the captured error; only an unconfigured source reports available:false.
func (h *Handler) datasetMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.dataset == nil {
		jsonResp(w, http.StatusOK, DatasetMetricsResponse{Available: false, Reason: h.reason})
		return
	}
	jsonResp(w, http.StatusOK, DatasetMetricsResponse{Available: true, Summary: h.dataset.Payload()})
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<html>
    <head><title>Digital Twin Dashboard</title></head>
    <body>
        <h1>Engine Digital Twin Dashboard</h1>
        <p>Current Temperature: {{printf "%.1f" .Current.Temperature}} &deg;C</p>
        <p>Current Energy: {{printf "%.1f" .Current.Energy}} kW</p>
        <p>Average Temperature (last {{.WindowLen}}s): {{printf "%.1f" .AvgTemperature}} &deg;C</p>
        <p>Max Energy (last {{.WindowLen}}s): {{printf "%.1f" .MaxEnergy}} kW</p>
        <p>Predicted Overheat: {{if .Alert}}YES{{else}}NO{{end}}</p>
    </body>
</html>
`))

// dashboard returns GET /dashboard, the rendered presentation view.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	view := h.state.Dashboard()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, view); err != nil {
		h.log.Errorf("render dashboard: %v", err)
	}
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func jsonErr(w http.ResponseWriter, status int, msg string) {
	jsonResp(w, status, map[string]string{"error": msg})
}
