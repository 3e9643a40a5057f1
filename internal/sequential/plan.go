package sequential

import (
	"fmt"
	"math"

	"teamtools/domain/core"
	"teamtools/domain/plan"
)

// negligibleImprovement is the absolute improvement below which the boundary
// cannot be inverted and milestones fall back to MaxN
const negligibleImprovement = 0.001

// BuildPlan computes an mSPRT monitoring plan in a single pass.
// Callers guarantee MinN <= MaxN, alpha and beta in (0,1) and a positive mean;
// the builder clamps against the bounds rather than re-validating them.
func BuildPlan(params plan.TestParameters) (*plan.PlanResult, error) {
	p := params.WithDefaults()

	if p.BaselineMean == 0 {
		return nil, core.NewDomainError("baseline_mean", "must be non-zero")
	}
	if !(p.Alpha > 0 && p.Alpha < 1) || !(p.Beta > 0 && p.Beta < 1) {
		return nil, core.ErrProbabilityOutOfRange
	}
	if p.MinN <= 0 || p.MaxN <= 0 {
		return nil, core.ErrNonPositiveSampleSize
	}
	if !(p.VarianceInflationFactor > 0) || !(p.MixingVarianceFactor > 0) {
		return nil, core.NewDomainError("calibration factors", "must be positive")
	}
	if k := p.Improvement.Kind; k != plan.ImprovementAbsolute && k != plan.ImprovementRelative {
		return nil, core.NewDomainError("improvement_type", fmt.Sprintf("has unsupported kind %q", k))
	}

	// dispersion
	original, method, estimated, useTTest, err := resolveDispersion(p)
	if err != nil {
		return nil, err
	}

	// variance inflation
	dispersion := original * math.Sqrt(p.VarianceInflationFactor)
	if !(dispersion > 0) {
		return nil, core.ErrNonPositiveDispersion
	}
	if p.VarianceInflationFactor > 1.0 {
		method += fmt.Sprintf(" (inflated by %.1fx for clustering/temporal effects)", p.VarianceInflationFactor)
	}

	// improvement and effect size
	absolute, relative := resolveImprovement(p.BaselineMean, p.Improvement)
	testMean := p.BaselineMean + absolute
	effect, err := EffectSize(p.BaselineMean, testMean, dispersion)
	if err != nil {
		return nil, err
	}

	// milestones: H0 and H1 share the same boundary inversion
	expectedNH1, err := milestone(math.Abs(absolute), dispersion, useTTest, p)
	if err != nil {
		return nil, err
	}
	halfEffectN, err := milestone(math.Abs(absolute/2), dispersion, useTTest, p)
	if err != nil {
		return nil, err
	}

	result := &plan.PlanResult{
		BaselineMean:            p.BaselineMean,
		Dispersion:              dispersion,
		OriginalDispersion:      original,
		DispersionMethod:        method,
		DispersionEstimated:     estimated,
		TestMean:                testMean,
		AbsoluteImprovement:     absolute,
		RelativeImprovement:     relative,
		EffectSize:              effect,
		CalibratedEffectSize:    effect / math.Sqrt(p.MixingVarianceFactor),
		UseTTest:                useTTest,
		Alpha:                   p.Alpha,
		Beta:                    p.Beta,
		Power:                   1 - p.Beta,
		A:                       (1 - p.Beta) / p.Alpha,
		B:                       p.Beta / (1 - p.Alpha),
		ExpectedNH0:             expectedNH1,
		ExpectedNH1:             expectedNH1,
		ExpectedNHalfEffect:     halfEffectN,
		MinN:                    p.MinN,
		MaxN:                    p.MaxN,
		EfficiencyGain:          (float64(p.MaxN) - expectedNH1) / float64(p.MaxN) * 100,
		WeeklyVisitors:          p.WeeklyVisitors,
		MaxWeeks:                p.MaxWeeks,
		VarianceInflationFactor: p.VarianceInflationFactor,
		MixingVarianceFactor:    p.MixingVarianceFactor,
	}

	// monitoring table
	monitor := Monitor{
		BaselineMean:        p.BaselineMean,
		Dispersion:          dispersion,
		AbsoluteImprovement: absolute,
		Alpha:               p.Alpha,
		UseTTest:            useTTest,
	}
	if p.HasWeeklyCadence() {
		weeks, err := monitor.WeeklyMonitoringTable(p.WeeklyVisitors, p.MaxWeeks)
		if err != nil {
			return nil, err
		}
		result.MonitoringMode = plan.MonitoringWeekly
		result.WeeklyPoints = weeks
		result.ExpectedWeeksH1 = expectedNH1 / float64(p.WeeklyVisitors)
	} else {
		points, err := monitor.GridMonitoringTable(p.MinN, p.MaxN)
		if err != nil {
			return nil, err
		}
		result.MonitoringMode = plan.MonitoringGrid
		result.MonitoringPoints = points
	}

	return result, nil
}

// resolveDispersion returns the pre-inflation dispersion, a description of how
// it was obtained, whether it is an estimate, and whether a t-test is required
func resolveDispersion(p plan.TestParameters) (float64, string, bool, bool, error) {
	switch p.DispersionMode {
	case plan.DispersionKnown:
		if p.BaselineDispersion == nil {
			return 0, "", false, false, core.NewDomainError("baseline_std", "is required when the standard deviation is known")
		}
		return *p.BaselineDispersion, "Known standard deviation", false, false, nil
	case plan.DispersionEstimated:
		if p.BaselineDispersion != nil {
			return *p.BaselineDispersion, "Estimated standard deviation (use Welch's t-test)", false, true, nil
		}
		return EstimateDispersion(p.BaselineMean, plan.EstimateModerate), "Estimated standard deviation (use Welch's t-test)", true, true, nil
	case plan.DispersionUnknown:
		return EstimateDispersion(p.BaselineMean, plan.EstimateConservative), "Unknown standard deviation (robust estimation)", true, true, nil
	default:
		return 0, "", false, false, core.NewDomainError("std_known", fmt.Sprintf("has unsupported mode %q", p.DispersionMode))
	}
}

// resolveImprovement returns the improvement in absolute units and as a percentage of the baseline
func resolveImprovement(baselineMean float64, imp plan.Improvement) (absolute, relative float64) {
	if imp.Kind == plan.ImprovementAbsolute {
		return imp.Value, imp.Value / baselineMean * 100
	}
	return baselineMean * (imp.Value / 100), imp.Value
}

// milestone is the per-group n at which the boundary reaches effect, clamped to [MinN, MaxN]
func milestone(effect, dispersion float64, useTTest bool, p plan.TestParameters) (float64, error) {
	if effect <= negligibleImprovement {
		return float64(p.MaxN), nil
	}
	n, err := SampleSizeForBoundary(effect, dispersion, p.Alpha, useTTest)
	if err != nil {
		return 0, err
	}
	return clamp(math.Abs(n), float64(p.MinN), float64(p.MaxN)), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
