package sequential

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"teamtools/domain/core"
)

// Rational approximation coefficients for the upper half of the inverse normal
// (Abramowitz & Stegun 26.2.23). Regression tests pin outputs produced with these values.
const (
	ppfC0 = 2.515517
	ppfC1 = 0.802853
	ppfC2 = 0.010328
	ppfD1 = 1.432788
	ppfD2 = 0.189269
	ppfD3 = 0.001308
)

// largeSampleDF is the degrees of freedom from which the t distribution is treated as normal
const largeSampleDF = 30

// NormPpf approximates the inverse standard normal CDF
func NormPpf(p float64) (float64, error) {
	if !(p > 0 && p < 1) {
		return 0, core.ErrProbabilityOutOfRange
	}
	if p < 0.5 {
		z, err := NormPpf(1 - p)
		return -z, err
	}

	q := p - 0.5
	t := math.Sqrt(-2 * math.Log(0.5-q))
	numerator := ppfC0 + ppfC1*t + ppfC2*t*t
	denominator := 1 + ppfD1*t + ppfD2*t*t + ppfD3*t*t*t

	return t - numerator/denominator, nil
}

// NormCdf is the standard normal CDF, 0.5*(1+erf(x/√2))
func NormCdf(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// TPpf approximates the inverse Student-t CDF with a first-order Cornish-Fisher
// correction. Callers special-case df <= 2.
func TPpf(df, p float64) (float64, error) {
	z, err := NormPpf(p)
	if err != nil {
		return 0, err
	}
	if df >= largeSampleDF {
		return z, nil
	}
	return z + (z*z*z+z)/(4*df), nil
}
