package sbg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohortlab/retain/internal/cohort"
)

func TestFitSingleCohort_Reference(t *testing.T) {
	// Fader and Hardie (2006) report (0.668, 3.806) for the High End data.
	fit, err := FitSingleCohort(highEndSeries)
	require.NoError(t, err)

	assert.InDelta(t, 0.668, fit.Alpha, 5e-3)
	assert.InDelta(t, 3.806, fit.Beta, 5e-3)
	assert.Greater(t, fit.Evaluations, 0)

	// The reported optimum must dominate the uniform-mixture baseline.
	baseline, err := LogLikelihood(1, 1, highEndSeries)
	require.NoError(t, err)
	assert.Greater(t, fit.LogLikelihood, baseline)
}

func TestFitMultiCohort_Reference(t *testing.T) {
	fit, err := FitMultiCohort(multiCohortCounts)
	require.NoError(t, err)

	assert.InDelta(t, 3.80, fit.Alpha, 5e-2)
	assert.InDelta(t, 15.19, fit.Beta, 5e-2)
}

func TestFitSingleCohort_Deterministic(t *testing.T) {
	first, err := FitSingleCohort(highEndSeries)
	require.NoError(t, err)
	second, err := FitSingleCohort(highEndSeries)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFitSingleCohort_RejectsInvalidData(t *testing.T) {
	_, err := FitSingleCohort(cohort.Series{0.9})
	assert.ErrorIs(t, err, cohort.ErrInvalidSeries)
}

func TestFitMultiCohort_RejectsInvalidData(t *testing.T) {
	_, err := FitMultiCohort(cohort.Dataset{})
	assert.ErrorIs(t, err, cohort.ErrInvalidSeries)
}

func TestFit_StaysInFeasibleRegion(t *testing.T) {
	fit, err := FitMultiCohort(multiCohortCounts)
	require.NoError(t, err)
	assert.Greater(t, fit.Alpha, 0.0)
	assert.Greater(t, fit.Beta, 0.0)
}
