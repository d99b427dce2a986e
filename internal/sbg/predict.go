package sbg

// PredictedRetention returns the model's retention rate r(t) under
// (alpha, beta): the probability that a customer alive at period t-1
// survives period t,
//
//	r(t) = (beta + t) / (alpha + beta + t)
//
// r(0) is the fraction of the population retained after the first period.
// Heterogeneity makes r(t) rise toward 1 with t: the high-churn individuals
// leave first, so the surviving pool is ever more loyal.
func PredictedRetention(alpha, beta float64, t int) (float64, error) {
	if alpha <= 0 || beta <= 0 {
		return 0, ErrInvalidParameterDomain
	}
	if t < 0 {
		return 0, ErrInvalidHorizon
	}
	return predictedRetention(alpha, beta, t), nil
}

func predictedRetention(alpha, beta float64, t int) float64 {
	return (beta + float64(t)) / (alpha + beta + float64(t))
}

// PredictedSurvival projects the survival curve s(0)..s(horizon-1): the
// expected fraction of a fresh cohort still active after each period, the
// cumulative product of retention rates. The curve is non-increasing with
// every value in (0, 1]. It depends only on (alpha, beta), not on the data
// they were fitted from.
func PredictedSurvival(alpha, beta float64, horizon int) ([]float64, error) {
	if alpha <= 0 || beta <= 0 {
		return nil, ErrInvalidParameterDomain
	}
	if horizon < 1 {
		return nil, ErrInvalidHorizon
	}

	s := make([]float64, horizon)
	s[0] = predictedRetention(alpha, beta, 0)
	for t := 1; t < horizon; t++ {
		s[t] = predictedRetention(alpha, beta, t) * s[t-1]
	}
	return s, nil
}
