package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohortlab/retain/pkg/config"
	"github.com/cohortlab/retain/pkg/logger"
	"github.com/cohortlab/retain/pkg/redis"
)

func newTestHandler(t *testing.T) *RetentionHandler {
	t.Helper()

	cfg := &config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}
	log := logger.New(cfg)

	// Redis disabled: cache calls become no-ops.
	client, err := redis.New(cfg)
	require.NoError(t, err)
	cache := redis.NewCache(client, "retain")

	return NewRetentionHandler(cache, time.Hour, log)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestFitSingle(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h.FitSingle, FitSingleRequest{
		Series: []float64{0.869, 0.743, 0.653, 0.593, 0.551, 0.517, 0.491},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Alpha float64 `json:"alpha"`
		Beta  float64 `json:"beta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 0.668, resp.Alpha, 5e-3)
	assert.InDelta(t, 3.806, resp.Beta, 5e-3)
}

func TestFitSingle_BadInput(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		series []float64
	}{
		{"empty", nil},
		{"single point", []float64{0.9}},
		{"increasing", []float64{0.5, 0.8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.FitSingle, FitSingleRequest{Series: tt.series})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestFitSingle_MalformedBody(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.FitSingle(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFitMulti(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h.FitMulti, FitMultiRequest{
		Cohorts: [][]float64{
			{10000, 8000, 6480, 5307, 4391},
			{10000, 8000, 6480, 5307},
			{10000, 8000, 6480},
			{10000, 8000},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Alpha float64 `json:"alpha"`
		Beta  float64 `json:"beta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 3.80, resp.Alpha, 5e-2)
	assert.InDelta(t, 15.19, resp.Beta, 5e-2)
}

func TestFitMulti_MisorderedCohorts(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h.FitMulti, FitMultiRequest{
		Cohorts: [][]float64{
			{10000, 8000},
			{10000, 8000, 6480},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictSurvival(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h.PredictSurvival, PredictRequest{Alpha: 0.668, Beta: 3.806, Horizon: 12})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Survival []float64 `json:"survival"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Survival, 12)

	prev := 1.0
	for _, v := range resp.Survival {
		assert.Greater(t, v, 0.0)
		assert.LessOrEqual(t, v, prev)
		prev = v
	}
}

func TestPredictRetention_InvalidParameterDomain(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h.PredictRetention, PredictRequest{Alpha: 0, Beta: 1, Period: 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValuation(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h.Valuation, DERLRequest{Alpha: 0.668, Beta: 3.806, DiscountRate: 0.1, Elapsed: 5})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		DERL float64 `json:"derl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Greater(t, resp.DERL, 0.0)
}

func TestValuation_InvalidDiscountRate(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h.Valuation, DERLRequest{Alpha: 1, Beta: 1, DiscountRate: 0, Elapsed: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
