package mathx

import (
	"errors"
	"math"
)

// Evaluation limits for the hypergeometric power series. The series term
// ratio tends to z, so convergence slows as |z| approaches 1; the iteration
// cap covers |z| up to about 0.999 at the target tolerance.
const (
	hyp2f1Tol     = 1e-12
	hyp2f1MaxIter = 500000
)

var (
	// ErrDomain is returned when the arguments are outside the convergence
	// domain of the series evaluation.
	ErrDomain = errors.New("mathx: hyp2f1 arguments outside series domain")

	// ErrNotConverged is returned when the series fails to reach the target
	// tolerance within the iteration cap.
	ErrNotConverged = errors.New("mathx: hyp2f1 series did not converge")
)

// Hyp2F1 evaluates the Gauss hypergeometric function 2F1(a, b; c; z) by
// direct summation of the defining power series
//
//	2F1(a, b; c; z) = Σ_k ((a)_k (b)_k / (c)_k) z^k / k!
//
// using the term recurrence t_{k+1} = t_k · (a+k)(b+k) / ((c+k)(1+k)) · z.
// The series converges for |z| < 1; arguments outside that disc, or a c that
// is zero or a negative integer (a pole of the series), return ErrDomain.
func Hyp2F1(a, b, c, z float64) (float64, error) {
	if math.Abs(z) >= 1 {
		return 0, ErrDomain
	}
	if c <= 0 && c == math.Trunc(c) {
		return 0, ErrDomain
	}

	sum := 1.0
	term := 1.0
	for k := 0; k < hyp2f1MaxIter; k++ {
		fk := float64(k)
		term *= (a + fk) * (b + fk) / ((c + fk) * (fk + 1)) * z
		sum += term
		if math.Abs(term) <= hyp2f1Tol*math.Abs(sum) {
			return sum, nil
		}
	}
	return 0, ErrNotConverged
}
