package sequential

import (
	"math"

	"teamtools/domain/core"
)

const (
	// smallSampleCritical replaces the t critical value when df = 2n-2 is too
	// small for the Cornish-Fisher approximation to be meaningful.
	smallSampleCritical = 3.0

	// inversionIterations is the fixed number of fixed-point refinements used by
	// the t-test branch of SampleSizeForBoundary. There is no convergence check.
	inversionIterations = 10
)

// StandardError of the difference of two group means with n observations per group
func StandardError(n, dispersion float64) float64 {
	return dispersion * math.Sqrt(2/n)
}

// BoundaryAt returns the positive two-sided decision boundary, in raw metric
// units, at n observations per group. The lower boundary is its negation.
func BoundaryAt(n, dispersion, alpha float64, useTTest bool) (float64, error) {
	if err := checkBoundaryInputs(dispersion, alpha); err != nil {
		return 0, err
	}
	if !(n > 0) {
		return 0, core.ErrNonPositiveSampleSize
	}

	critical, err := criticalValue(n, alpha, useTTest)
	if err != nil {
		return 0, err
	}
	return critical * StandardError(n, dispersion), nil
}

// SampleSizeForBoundary inverts BoundaryAt: the per-group n at which the boundary
// shrinks to targetBoundary. The z branch is closed form. The t branch seeds with
// the z solution and applies exactly inversionIterations fixed-point updates,
// since the critical value depends on n through the degrees of freedom.
func SampleSizeForBoundary(targetBoundary, dispersion, alpha float64, useTTest bool) (float64, error) {
	if err := checkBoundaryInputs(dispersion, alpha); err != nil {
		return 0, err
	}
	if !(targetBoundary > 0) {
		return 0, core.ErrZeroEffect
	}

	zAlpha, err := NormPpf(1 - alpha/2)
	if err != nil {
		return 0, err
	}
	n := solveN(zAlpha, dispersion, targetBoundary)
	if !useTTest {
		return n, nil
	}

	for i := 0; i < inversionIterations; i++ {
		tAlpha, err := criticalValue(n, alpha, true)
		if err != nil {
			return 0, err
		}
		n = solveN(tAlpha, dispersion, targetBoundary)
	}
	return n, nil
}

func solveN(critical, dispersion, targetBoundary float64) float64 {
	root := critical * dispersion * math.Sqrt2 / targetBoundary
	return root * root
}

func criticalValue(n, alpha float64, useTTest bool) (float64, error) {
	if !useTTest {
		return NormPpf(1 - alpha/2)
	}
	df := 2*n - 2
	if df <= 2 {
		return smallSampleCritical, nil
	}
	return TPpf(df, 1-alpha/2)
}

func checkBoundaryInputs(dispersion, alpha float64) error {
	if !(dispersion > 0) {
		return core.ErrNonPositiveDispersion
	}
	if !(alpha > 0 && alpha < 1) {
		return core.ErrProbabilityOutOfRange
	}
	return nil
}
