// Package fixedhorizon sizes a classic two-sample test whose sample size is
// fixed before any data is looked at. It is the baseline the sequential plan
// is compared against.
package fixedhorizon

import (
	"fmt"
	"math"

	"teamtools/domain/core"
	"teamtools/domain/plan"
	"teamtools/internal/sequential"
)

// maxSampleSize caps the per-group sample size so it fits an int on every platform.
const maxSampleSize = math.MaxInt32

// Calculate returns the per-group sample size needed to detect the requested
// improvement with the requested power
func Calculate(p plan.FixedHorizonParams) (*plan.FixedHorizonResult, error) {
	if !(p.BaselineMean > 0) {
		return nil, core.NewDomainError("baseline_mean", "must be positive")
	}
	if p.BaselineDispersion != nil && !(*p.BaselineDispersion > 0) {
		return nil, core.ErrNonPositiveDispersion
	}
	if !(p.Power > 0 && p.Power < 1) || !(p.Alpha > 0 && p.Alpha < 1) {
		return nil, core.ErrProbabilityOutOfRange
	}

	sidedness := p.Sidedness
	if sidedness == "" {
		sidedness = plan.TwoSided
	}

	dispersion, estimated := 0.0, false
	if p.BaselineDispersion != nil {
		dispersion = *p.BaselineDispersion
	} else {
		dispersion, estimated = sequential.EstimateDispersion(p.BaselineMean, plan.EstimateConservative), true
	}

	var absolute, relative float64
	switch p.Improvement.Kind {
	case plan.ImprovementAbsolute:
		absolute = p.Improvement.Value
		relative = absolute / p.BaselineMean * 100
	case plan.ImprovementRelative:
		relative = p.Improvement.Value
		absolute = p.BaselineMean * (relative / 100)
	default:
		return nil, core.NewDomainError("improvement_type", fmt.Sprintf("has unsupported kind %q", p.Improvement.Kind))
	}
	testMean := p.BaselineMean + absolute

	effect, err := sequential.EffectSize(p.BaselineMean, testMean, dispersion)
	if err != nil {
		return nil, err
	}
	if effect == 0 {
		return nil, core.ErrZeroEffect
	}

	zAlpha, err := criticalValue(p.Alpha, sidedness)
	if err != nil {
		return nil, err
	}
	zBeta, err := sequential.NormPpf(p.Power)
	if err != nil {
		return nil, err
	}

	z := zAlpha + zBeta
	needed := math.Ceil(2 * (z * z) / (effect * effect))
	if needed > maxSampleSize {
		return nil, core.NewDomainError("improvement", fmt.Sprintf("is too small: required sample size exceeds %d per group", maxSampleSize))
	}
	n := int(needed)
	se := math.Sqrt(2 / float64(n))

	return &plan.FixedHorizonResult{
		BaselineMean:        p.BaselineMean,
		Dispersion:          dispersion,
		DispersionEstimated: estimated,
		TestMean:            testMean,
		AbsoluteImprovement: absolute,
		RelativeImprovement: relative,
		EffectSize:          effect,
		EffectSizeCILower:   effect - zAlpha*se,
		EffectSizeCIUpper:   effect + zAlpha*se,
		SampleSizePerGroup:  n,
		TotalSampleSize:     2 * n,
		AchievedPower:       sequential.NormCdf(effect*math.Sqrt(float64(n)/2) - zAlpha),
		Power:               p.Power,
		Alpha:               p.Alpha,
		Sidedness:           sidedness,
	}, nil
}

func criticalValue(alpha float64, sidedness plan.Sidedness) (float64, error) {
	switch sidedness {
	case plan.TwoSided:
		return sequential.NormPpf(1 - alpha/2)
	case plan.OneSided:
		return sequential.NormPpf(1 - alpha)
	default:
		return 0, core.NewDomainError("test_type", fmt.Sprintf("has unsupported value %q", sidedness))
	}
}
