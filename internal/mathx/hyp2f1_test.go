package mathx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHyp2F1_KnownIdentity(t *testing.T) {
	// 2F1(1, 1; 2; z) = -ln(1-z) / z
	for _, z := range []float64{-0.9, -0.5, 0.1, 0.5, 0.9, 0.99} {
		got, err := Hyp2F1(1, 1, 2, z)
		require.NoError(t, err, "z=%v", z)
		want := -math.Log(1-z) / z
		assert.InEpsilon(t, want, got, 1e-10, "z=%v", z)
	}
}

func TestHyp2F1_ZeroArgument(t *testing.T) {
	got, err := Hyp2F1(1, 4.8, 5.5, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestHyp2F1_BinomialIdentity(t *testing.T) {
	// 2F1(a, b; b; z) = (1-z)^(-a), independent of b
	got, err := Hyp2F1(2.5, 3.0, 3.0, 0.4)
	require.NoError(t, err)
	assert.InEpsilon(t, math.Pow(0.6, -2.5), got, 1e-10)
}

func TestHyp2F1_Domain(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, z float64
	}{
		{"z at unit circle", 1, 2, 3, 1.0},
		{"z beyond unit circle", 1, 2, 3, 1.5},
		{"negative z beyond unit circle", 1, 2, 3, -2.0},
		{"c zero", 1, 2, 0, 0.5},
		{"c negative integer", 1, 2, -3, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Hyp2F1(tt.a, tt.b, tt.c, tt.z)
			assert.ErrorIs(t, err, ErrDomain)
		})
	}
}
