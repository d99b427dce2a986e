package sbg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChurnProbabilities_Recurrence(t *testing.T) {
	// alpha = beta = 1 has the closed form P(T=t) = 1 / ((t+1)(t+2)).
	probs := churnProbabilities(1, 1, 7)
	require.Len(t, probs, 7)
	for tt, p := range probs {
		want := 1 / (float64(tt+1) * float64(tt+2))
		assert.InDelta(t, want, p, 1e-15, "t=%d", tt)
	}
}

func TestChurnProbabilities_TelescopingIdentity(t *testing.T) {
	// For any positive parameters the sequence sums to strictly less than 1
	// and the remainder is exactly the final survivor value.
	cases := []struct {
		alpha, beta float64
		n           int
	}{
		{1, 1, 1},
		{0.668, 3.806, 12},
		{3.8, 15.19, 50},
		{100, 100, 200},
		{0.01, 0.5, 25},
	}
	for _, tc := range cases {
		probs := churnProbabilities(tc.alpha, tc.beta, tc.n)
		surv := survivors(probs)

		sum := 0.0
		for _, p := range probs {
			assert.Greater(t, p, 0.0)
			sum += p
		}
		assert.Less(t, sum, 1.0, "alpha=%v beta=%v n=%d", tc.alpha, tc.beta, tc.n)
		assert.InDelta(t, 1.0, sum+surv[tc.n-1], 1e-12, "alpha=%v beta=%v n=%d", tc.alpha, tc.beta, tc.n)
	}
}

func TestSurvivors_NonIncreasing(t *testing.T) {
	probs := churnProbabilities(0.668, 3.806, 30)
	surv := survivors(probs)

	prev := 1.0 // S(-1) = 1 by definition
	for tt, s := range surv {
		assert.LessOrEqual(t, s, prev, "t=%d", tt)
		assert.Greater(t, s, 0.0, "t=%d", tt)
		prev = s
	}
}
