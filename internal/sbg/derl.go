package sbg

import (
	"fmt"

	"github.com/cohortlab/retain/internal/mathx"
)

// DiscountedResidualLifetime computes DERL: the expected present value, in
// periods, of the future lifetime of a customer known to be still active
// after elapsed periods, discounted at per-period rate d,
//
//	DERL = r(elapsed) * 2F1(1, beta+elapsed+1; alpha+beta+elapsed+1; 1/(1+d))
//
// (Fader and Hardie 2009, equation 6). The period the customer is currently
// renewing counts undiscounted; each further period is discounted by
// another factor of 1/(1+d). Numerical stability of the hypergeometric
// evaluation near argument 1 (vanishing discount rates) is the evaluator's
// concern; its domain errors are propagated.
func DiscountedResidualLifetime(alpha, beta, d float64, elapsed int) (float64, error) {
	if alpha <= 0 || beta <= 0 {
		return 0, ErrInvalidParameterDomain
	}
	if d <= 0 {
		return 0, ErrInvalidDiscountRate
	}
	if elapsed < 0 {
		return 0, ErrInvalidHorizon
	}

	n := float64(elapsed)
	h, err := mathx.Hyp2F1(1, beta+n+1, alpha+beta+n+1, 1/(1+d))
	if err != nil {
		return 0, fmt.Errorf("sbg: residual lifetime at d=%v: %w", d, err)
	}
	return predictedRetention(alpha, beta, elapsed) * h, nil
}
