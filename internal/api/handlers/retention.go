package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cohortlab/retain/internal/cohort"
	"github.com/cohortlab/retain/internal/mathx"
	"github.com/cohortlab/retain/internal/sbg"
	"github.com/cohortlab/retain/pkg/logger"
	"github.com/cohortlab/retain/pkg/redis"
)

// RetentionHandler handles model fitting, prediction and valuation endpoints.
type RetentionHandler struct {
	cache    *redis.Cache
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewRetentionHandler creates a new retention handler. cache may wrap a
// disabled Redis client; fits are simply recomputed then.
func NewRetentionHandler(cache *redis.Cache, cacheTTL time.Duration, log *logger.Logger) *RetentionHandler {
	return &RetentionHandler{
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

// FitSingleRequest is the body for POST /api/fit/single
type FitSingleRequest struct {
	Series []float64 `json:"series"`
}

// FitMultiRequest is the body for POST /api/fit/multi
type FitMultiRequest struct {
	Cohorts [][]float64 `json:"cohorts"`
}

// PredictRequest is the body for the prediction endpoints
type PredictRequest struct {
	Alpha   float64 `json:"alpha"`
	Beta    float64 `json:"beta"`
	Period  int     `json:"period"`
	Horizon int     `json:"horizon"`
}

// DERLRequest is the body for POST /api/valuation/derl
type DERLRequest struct {
	Alpha        float64 `json:"alpha"`
	Beta         float64 `json:"beta"`
	DiscountRate float64 `json:"discount_rate"`
	Elapsed      int     `json:"elapsed"`
}

// FitSingle fits (alpha, beta) to a fractional retention series
// POST /api/fit/single
func (h *RetentionHandler) FitSingle(w http.ResponseWriter, r *http.Request) {
	var req FitSingleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.fitCached(w, r, "single", req.Series, func() (sbg.FitResult, error) {
		return sbg.FitSingleCohort(cohort.Series(req.Series))
	})
}

// FitMulti fits (alpha, beta) to a multi-cohort count dataset
// POST /api/fit/multi
func (h *RetentionHandler) FitMulti(w http.ResponseWriter, r *http.Request) {
	var req FitMultiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.fitCached(w, r, "multi", req.Cohorts, func() (sbg.FitResult, error) {
		return sbg.FitMultiCohort(cohort.Dataset(req.Cohorts))
	})
}

// fitCached serves a fit from the Redis cache when possible. Fitting is
// deterministic, so the input hash fully identifies the result.
func (h *RetentionHandler) fitCached(w http.ResponseWriter, r *http.Request, kind string, input interface{}, fit func() (sbg.FitResult, error)) {
	ctx := r.Context()
	key := kind + ":" + inputHash(input)

	var cached sbg.FitResult
	if found, err := h.cache.Get(ctx, key, &cached); err == nil && found {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	result, err := fit()
	if err != nil {
		h.respondFitError(w, err)
		return
	}

	if err := h.cache.Set(ctx, key, result, h.cacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache fit result")
	}
	respondJSON(w, http.StatusOK, result)
}

// PredictRetention returns r(t) for given parameters
// POST /api/predict/retention
func (h *RetentionHandler) PredictRetention(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	retention, err := sbg.PredictedRetention(req.Alpha, req.Beta, req.Period)
	if err != nil {
		h.respondModelError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"period":    req.Period,
		"retention": retention,
	})
}

// PredictSurvival returns the projected survival curve
// POST /api/predict/survival
func (h *RetentionHandler) PredictSurvival(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	survival, err := sbg.PredictedSurvival(req.Alpha, req.Beta, req.Horizon)
	if err != nil {
		h.respondModelError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"horizon":  req.Horizon,
		"survival": survival,
	})
}

// Valuation returns the discounted expected residual lifetime
// POST /api/valuation/derl
func (h *RetentionHandler) Valuation(w http.ResponseWriter, r *http.Request) {
	var req DERLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	derl, err := sbg.DiscountedResidualLifetime(req.Alpha, req.Beta, req.DiscountRate, req.Elapsed)
	if err != nil {
		h.respondModelError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"elapsed":       req.Elapsed,
		"discount_rate": req.DiscountRate,
		"derl":          derl,
	})
}

// respondFitError maps fit failures onto HTTP statuses: bad input is the
// caller's fault, non-convergence is a valid request the model could not
// satisfy.
func (h *RetentionHandler) respondFitError(w http.ResponseWriter, err error) {
	var convErr *sbg.ConvergenceError
	switch {
	case errors.Is(err, cohort.ErrInvalidSeries):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &convErr):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.WithError(err).Error("Fit failed")
		respondError(w, http.StatusInternalServerError, "fit failed")
	}
}

func (h *RetentionHandler) respondModelError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sbg.ErrInvalidParameterDomain),
		errors.Is(err, sbg.ErrInvalidDiscountRate),
		errors.Is(err, sbg.ErrInvalidHorizon),
		errors.Is(err, mathx.ErrDomain):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.WithError(err).Error("Model evaluation failed")
		respondError(w, http.StatusInternalServerError, "model evaluation failed")
	}
}

// inputHash produces a stable cache key for a JSON-serializable input.
func inputHash(input interface{}) string {
	data, err := json.Marshal(input)
	if err != nil {
		return "unhashable"
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
