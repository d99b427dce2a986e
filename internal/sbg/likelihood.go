package sbg

import (
	"math"

	"github.com/cohortlab/retain/internal/cohort"
)

// logLikelihoodPenalty is the value both likelihood functions return for an
// infeasible (alpha, beta). It must sit far below any reachable likelihood,
// including absolute-count datasets whose true log-likelihood runs to tens of
// thousands, so the negated objective always repels the optimizer from the
// infeasible region instead of attracting it.
const logLikelihoodPenalty = -1e18

// LogLikelihood returns the single-cohort log-likelihood of (alpha, beta)
// given a fractional retention series. Infeasible parameters are penalized,
// not rejected; malformed data is rejected.
func LogLikelihood(alpha, beta float64, series cohort.Series) (float64, error) {
	if err := series.Validate(); err != nil {
		return 0, err
	}
	return logLikelihood(alpha, beta, series.Rates(), series[len(series)-1]), nil
}

// logLikelihood is the pre-validated fast path shared with the estimator,
// which evaluates it thousands of times per fit. rates[t] is the fraction of
// the cohort that churned exactly at period t and lastObs the final observed
// retention value, which is attributed to the survivor tail: the model
// cannot place those customers at an exact churn period, only as still alive
// after all len(rates) observed periods.
func logLikelihood(alpha, beta float64, rates []float64, lastObs float64) float64 {
	if alpha <= 0 || beta <= 0 {
		return logLikelihoodPenalty
	}

	n := len(rates)
	probs := churnProbabilities(alpha, beta, n)
	surv := survivors(probs)

	total := 0.0
	for t, rate := range rates {
		total += rate * math.Log(probs[t])
	}
	return total + lastObs*math.Log(surv[n-1])
}

// LogLikelihoodMultiCohort returns the joint log-likelihood of (alpha, beta)
// across several cohorts of absolute still-active counts that share the same
// underlying churn heterogeneity. The dataset must be laid out oldest cohort
// first with each younger cohort exactly one observation shorter; Validate
// enforces that because the survivor tail index below is derived from it.
func LogLikelihoodMultiCohort(alpha, beta float64, dataset cohort.Dataset) (float64, error) {
	if err := dataset.Validate(); err != nil {
		return 0, err
	}
	return logLikelihoodMultiCohort(alpha, beta, dataset), nil
}

// logLikelihoodMultiCohort is the pre-validated fast path. The probability
// sequence is generated once, sized to the oldest (longest) cohort, and
// shared by every cohort's terms. A cohort observed for L counts has churned
// members placed at exact periods 0..L-2 and its final count still alive
// after L-1 periods, so the tail term uses the survivor value at index L-2.
func logLikelihoodMultiCohort(alpha, beta float64, dataset cohort.Dataset) float64 {
	if alpha <= 0 || beta <= 0 {
		return logLikelihoodPenalty
	}

	probs := churnProbabilities(alpha, beta, len(dataset[0]))
	surv := survivors(probs)

	total := 0.0
	for _, counts := range dataset {
		for j := 0; j < len(counts)-1; j++ {
			total += (counts[j] - counts[j+1]) * math.Log(probs[j])
		}
		total += counts[len(counts)-1] * math.Log(surv[len(counts)-2])
	}
	return total
}
