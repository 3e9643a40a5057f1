package sequential

import (
	"math"

	"teamtools/domain/core"
	"teamtools/domain/plan"
)

// EffectSize is the Cohen's-d style standardized difference |test-baseline|/dispersion
func EffectSize(baselineMean, testMean, dispersion float64) (float64, error) {
	if !(dispersion > 0) {
		return 0, core.ErrNonPositiveDispersion
	}
	return math.Abs(testMean-baselineMean) / dispersion, nil
}

// EstimateDispersion guesses a standard deviation from the mean by assuming a
// coefficient of variation. The result is an assumption, not a measurement.
func EstimateDispersion(baselineMean float64, method plan.EstimationMethod) float64 {
	return math.Abs(baselineMean) * coefficientOfVariation(method)
}

func coefficientOfVariation(method plan.EstimationMethod) float64 {
	switch method {
	case plan.EstimateConservative:
		return 0.5
	case plan.EstimateModerate:
		return 0.3
	default:
		return 0.2
	}
}
