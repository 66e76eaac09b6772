package engine

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enginetwin/enginetwin/core/degradation"
	coreengine "github.com/enginetwin/enginetwin/core/engine"
	"github.com/enginetwin/enginetwin/core/model"
)

func newState(t *testing.T) *coreengine.State {
	t.Helper()
	cfg := coreengine.Config{}
	cfg.SetDefaults()
	return coreengine.NewState(cfg)
}

func TestCurrent_InitialValue(t *testing.T) {
	h := New(newState(t), nil, "dataset path not configured", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/engine", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Sample
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.InitialSample, got)
}

func TestCurrent_ReflectsIngest(t *testing.T) {
	state := newState(t)
	state.Ingest(model.Sample{Energy: 510, Temperature: 320})
	h := New(state, nil, "", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/engine", nil))

	var got model.Sample
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 320.0, got.Temperature)
	assert.Equal(t, 510.0, got.Energy)
}

func TestCurrent_MethodNotAllowed(t *testing.T) {
	h := New(newState(t), nil, "", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/engine", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDatasetMetrics_Unconfigured(t *testing.T) {
	h := New(newState(t), nil, "dataset path not configured", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dataset-metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DatasetMetricsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Available)
	assert.Equal(t, "dataset path not configured", resp.Reason)
	assert.Nil(t, resp.Summary)
}

func TestDatasetMetrics_FailedLoadStillAvailable(t *testing.T) {
	res := degradation.Fail("Failed to load dataset: file not found")
	h := New(newState(t), &res, "", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dataset-metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Available bool              `json:"available"`
		Summary   map[string]string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Available)
	assert.Contains(t, resp.Summary["error"], "Failed to load dataset")
}

func TestDatasetMetrics_Summary(t *testing.T) {
	slope := 2.0
	res := degradation.Succeed(degradation.Summary{Rows: 4, Units: 2, MeanRUL: 0.75, MaxRUL: 2, Sensors: 1, MeanSlope: &slope})
	h := New(newState(t), &res, "", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dataset-metrics", nil))

	var resp struct {
		Available bool                `json:"available"`
		Summary   degradation.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Available)
	assert.Equal(t, 4, resp.Summary.Rows)
	require.NotNil(t, resp.Summary.MeanSlope)
	assert.Equal(t, 2.0, *resp.Summary.MeanSlope)
}

func TestDashboard_RendersView(t *testing.T) {
	state := newState(t)
	state.Ingest(model.Sample{Energy: 480, Temperature: 300})
	state.Ingest(model.Sample{Energy: 530, Temperature: 320})
	h := New(state, nil, "", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "Current Temperature: 320.0"), "body: %s", body)
	assert.Contains(t, body, "Average Temperature (last 2s): 310.0")
	assert.Contains(t, body, "Max Energy (last 2s): 530.0")
	assert.Contains(t, body, "Predicted Overheat: NO")
}

func TestDashboard_AlertFlag(t *testing.T) {
	state := newState(t)
	state.Ingest(model.Sample{Energy: 600, Temperature: 510})
	h := New(state, nil, "", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Contains(t, rec.Body.String(), "Predicted Overheat: YES")
}
