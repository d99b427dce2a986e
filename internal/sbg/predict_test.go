package sbg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictedRetention_ApproachesOne(t *testing.T) {
	alpha, beta := 0.668, 3.806

	prev := 0.0
	for _, tt := range []int{0, 1, 5, 10, 100, 1000, 100000} {
		r, err := PredictedRetention(alpha, beta, tt)
		require.NoError(t, err)
		assert.Greater(t, r, prev, "retention must increase with t")
		assert.Less(t, r, 1.0)
		prev = r
	}
	assert.InDelta(t, 1.0, prev, 1e-4, "retention approaches 1 as t grows")
}

func TestPredictedRetention_Value(t *testing.T) {
	r, err := PredictedRetention(0.668, 3.806, 0)
	require.NoError(t, err)
	assert.InDelta(t, 3.806/(0.668+3.806), r, 1e-12)
}

func TestPredictedSurvival_NonIncreasingInUnitInterval(t *testing.T) {
	s, err := PredictedSurvival(0.668, 3.806, 12)
	require.NoError(t, err)
	require.Len(t, s, 12)

	prev := 1.0
	for tt, v := range s {
		assert.Greater(t, v, 0.0, "t=%d", tt)
		assert.LessOrEqual(t, v, prev, "t=%d", tt)
		prev = v
	}
}

func TestPredictedSurvival_TracksObservedCurve(t *testing.T) {
	// With the fitted High End parameters the projected curve should stay
	// close to the observed one over the observed horizon.
	s, err := PredictedSurvival(0.668, 3.806, len(highEndSeries))
	require.NoError(t, err)
	for tt, observed := range highEndSeries {
		assert.InDelta(t, observed, s[tt], 0.02, "t=%d", tt)
	}
}

func TestPrediction_InvalidParameterDomain(t *testing.T) {
	_, err := PredictedRetention(0, 1, 3)
	assert.ErrorIs(t, err, ErrInvalidParameterDomain)

	_, err = PredictedRetention(1, -2, 3)
	assert.ErrorIs(t, err, ErrInvalidParameterDomain)

	_, err = PredictedSurvival(-1, 1, 5)
	assert.ErrorIs(t, err, ErrInvalidParameterDomain)
}

func TestPredictedSurvival_InvalidHorizon(t *testing.T) {
	_, err := PredictedSurvival(1, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}
