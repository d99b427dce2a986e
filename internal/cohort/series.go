package cohort

import (
	"errors"
	"fmt"
)

// ErrInvalidSeries is the base error for observation data that violates the
// model's input contract. Callers match it with errors.Is.
var ErrInvalidSeries = errors.New("cohort: invalid observation series")

// Series is a single cohort's fractional retention curve: the share of the
// initial cohort still active at each discrete period, starting at period 0.
// Values must lie in (0, 1] and never increase.
type Series []float64

// Validate checks the series against the single-cohort input contract.
// Zero-length and single-point series are rejected: with fewer than two
// observations the likelihood cannot separate churn from the survivor tail.
func (s Series) Validate() error {
	if len(s) < 2 {
		return fmt.Errorf("%w: need at least 2 observations, got %d", ErrInvalidSeries, len(s))
	}
	for i, v := range s {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%w: value %v at period %d outside (0, 1]", ErrInvalidSeries, v, i)
		}
		if i > 0 && v > s[i-1] {
			return fmt.Errorf("%w: retention increases at period %d (%v -> %v)", ErrInvalidSeries, i, s[i-1], v)
		}
	}
	return nil
}

// Rates converts the retention curve into per-period churn rates: the share
// of the initial cohort that died exactly in each period. rates[0] = 1-s[0],
// rates[t] = s[t-1]-s[t]. The caller is expected to have validated s.
func (s Series) Rates() []float64 {
	rates := make([]float64, len(s))
	for i, v := range s {
		if i == 0 {
			rates[0] = 1 - v
		} else {
			rates[i] = s[i-1] - v
		}
	}
	return rates
}

// Dataset is an ordered collection of cohorts tracked as absolute counts of
// still-active members. Cohorts share one (alpha, beta) and one calendar
// axis: the first cohort is the oldest, and each subsequent cohort was
// acquired exactly one period later, so it has exactly one fewer observation.
type Dataset [][]float64

// Validate checks the dataset against the multi-cohort input contract.
// The one-observation-shorter layout is load-bearing: the likelihood's
// survivor tail index is derived from the cohort's position, and a
// misordered dataset would produce a plausible-looking but wrong fit.
func (d Dataset) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("%w: empty dataset", ErrInvalidSeries)
	}
	for i, counts := range d {
		want := len(d[0]) - i
		if len(counts) != want {
			return fmt.Errorf("%w: cohort %d has %d observations, want %d (one fewer per cohort, oldest first)",
				ErrInvalidSeries, i, len(counts), want)
		}
		if len(counts) < 2 {
			return fmt.Errorf("%w: cohort %d needs at least 2 observations", ErrInvalidSeries, i)
		}
		if counts[0] <= 0 {
			return fmt.Errorf("%w: cohort %d starts with non-positive count %v", ErrInvalidSeries, i, counts[0])
		}
		for j := 1; j < len(counts); j++ {
			if counts[j] < 0 {
				return fmt.Errorf("%w: cohort %d has negative count at period %d", ErrInvalidSeries, i, j)
			}
			if counts[j] > counts[j-1] {
				return fmt.Errorf("%w: cohort %d count increases at period %d (%v -> %v)",
					ErrInvalidSeries, i, j, counts[j-1], counts[j])
			}
		}
	}
	return nil
}
