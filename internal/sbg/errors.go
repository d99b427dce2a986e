package sbg

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameterDomain is returned by prediction and valuation
	// entry points when alpha or beta is not strictly positive. The
	// likelihood functions deliberately do NOT return this: inside the
	// optimizer's objective an infeasible point is penalized, not rejected,
	// so the search is steered back into the feasible region.
	ErrInvalidParameterDomain = errors.New("sbg: alpha and beta must be positive")

	// ErrInvalidDiscountRate is returned when the per-period discount rate
	// is not strictly positive.
	ErrInvalidDiscountRate = errors.New("sbg: discount rate must be positive")

	// ErrInvalidHorizon is returned for non-positive projection horizons
	// and negative elapsed-period counts.
	ErrInvalidHorizon = errors.New("sbg: horizon must be positive")
)

// ConvergenceError reports that the maximum-likelihood search terminated
// without convergence. It carries the optimizer's own status text; the fit
// is unusable and is not retried.
type ConvergenceError struct {
	Status string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("sbg: fit did not converge: %s", e.Status)
}
