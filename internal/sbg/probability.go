// Package sbg implements the shifted-beta-geometric customer retention model
// from Fader and Hardie, "How to Project Customer Retention" (2006), and the
// discounted expected residual lifetime valuation from Fader and Hardie,
// "Customer-Base Valuation in a Contractual Setting" (2009).
//
// Each customer churns at a geometrically distributed period with an
// individual churn probability drawn from a Beta(alpha, beta) distribution
// across the population. The package fits (alpha, beta) to aggregate cohort
// retention data by maximum likelihood and projects retention, survival and
// residual-lifetime value from the fitted parameters.
//
// Every function is a pure computation over its inputs; the package holds no
// state, so independent fits may run concurrently.
package sbg

// churnProbabilities generates P(T=0)..P(T=n-1), the aggregate probability
// that an individual churns exactly at period t, via the closed-form
// recurrence
//
//	P(T=0) = alpha / (alpha + beta)
//	P(T=t) = (beta + t - 1) / (alpha + beta + t) * P(T=t-1)
//
// The recurrence also admits a direct recursive definition, but that form is
// exponential in call count; this single pass is O(n).
func churnProbabilities(alpha, beta float64, n int) []float64 {
	p := make([]float64, n)
	if n == 0 {
		return p
	}
	p[0] = alpha / (alpha + beta)
	for t := 1; t < n; t++ {
		ft := float64(t)
		p[t] = (beta + ft - 1) / (alpha + beta + ft) * p[t-1]
	}
	return p
}

// survivors converts a churn-probability sequence into survivor values:
// s[t] = S(t) = 1 - Σ_{k=0..t} P(T=k), the fraction still active after
// period t. Computed as a running subtraction so repeated S(t) lookups in
// the likelihood loops stay O(1).
func survivors(probs []float64) []float64 {
	s := make([]float64, len(probs))
	remaining := 1.0
	for t, p := range probs {
		remaining -= p
		s[t] = remaining
	}
	return s
}
