package sbg

import (
	"gonum.org/v1/gonum/optimize"

	"github.com/cohortlab/retain/internal/cohort"
)

// Initial guesses for the Nelder-Mead search. The two forms start from
// different points because the objective scales differently: fractional
// single-cohort likelihoods are O(1) while absolute-count multi-cohort
// likelihoods are O(cohort size).
var (
	singleCohortGuess = []float64{100, 100}
	multiCohortGuess  = []float64{1, 1}
)

// fitTolerance is the absolute function-convergence tolerance for the
// simplex search, matching the precision of the published reference fits.
const fitTolerance = 1e-10

// FitResult is the outcome of a maximum-likelihood fit. Alpha and Beta are
// frozen once the search converges; LogLikelihood is the value at the
// optimum and Evaluations the number of objective calls spent reaching it.
type FitResult struct {
	Alpha         float64 `json:"alpha"`
	Beta          float64 `json:"beta"`
	LogLikelihood float64 `json:"log_likelihood"`
	Evaluations   int     `json:"evaluations"`
}

// FitSingleCohort recovers the maximum-likelihood (alpha, beta) for a single
// cohort's fractional retention series. The series is validated once up
// front; the churn rates are then reused across every objective evaluation.
func FitSingleCohort(series cohort.Series) (FitResult, error) {
	if err := series.Validate(); err != nil {
		return FitResult{}, err
	}

	rates := series.Rates()
	lastObs := series[len(series)-1]
	objective := func(x []float64) float64 {
		return -logLikelihood(x[0], x[1], rates, lastObs)
	}
	return maximize(objective, singleCohortGuess)
}

// FitMultiCohort recovers the maximum-likelihood (alpha, beta) shared by
// several cohorts of absolute still-active counts.
func FitMultiCohort(dataset cohort.Dataset) (FitResult, error) {
	if err := dataset.Validate(); err != nil {
		return FitResult{}, err
	}

	objective := func(x []float64) float64 {
		return -logLikelihoodMultiCohort(x[0], x[1], dataset)
	}
	return maximize(objective, multiCohortGuess)
}

// maximize runs the derivative-free Nelder-Mead simplex on the negated
// log-likelihood. A simplex method is required: the penalized objective is
// not smooth at the parameter-domain boundary and no gradients are supplied.
// The search is deterministic for a given objective and initial guess.
func maximize(objective func(x []float64) float64, guess []float64) (FitResult, error) {
	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{
			Absolute:   fitTolerance,
			Iterations: 100,
		},
	}

	// guess is shared package state; Minimize must not mutate it.
	x0 := append([]float64(nil), guess...)

	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return FitResult{}, &ConvergenceError{Status: err.Error()}
	}
	if err := result.Status.Err(); err != nil {
		return FitResult{}, &ConvergenceError{Status: result.Status.String()}
	}

	return FitResult{
		Alpha:         result.X[0],
		Beta:          result.X[1],
		LogLikelihood: -result.F,
		Evaluations:   result.FuncEvaluations,
	}, nil
}
