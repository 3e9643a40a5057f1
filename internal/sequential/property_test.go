package sequential

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"teamtools/domain/plan"
)

func drawParams(rt *rapid.T) plan.TestParameters {
	mode := rapid.SampledFrom([]plan.DispersionMode{
		plan.DispersionKnown, plan.DispersionEstimated, plan.DispersionUnknown,
	}).Draw(rt, "mode")
	mean := rapid.Float64Range(1, 1000).Draw(rt, "mean")
	minN := rapid.IntRange(100, 1000).Draw(rt, "minN")

	p := plan.TestParameters{
		BaselineMean:   mean,
		DispersionMode: mode,
		Improvement:    plan.Relative(rapid.Float64Range(0.5, 50).Draw(rt, "relative")),
		Alpha:          rapid.Float64Range(0.01, 0.1).Draw(rt, "alpha"),
		Beta:           rapid.Float64Range(0.05, 0.3).Draw(rt, "beta"),
		MinN:           minN,
		MaxN:           minN + rapid.IntRange(0, 100000).Draw(rt, "span"),
	}
	if mode != plan.DispersionUnknown {
		cv := rapid.Float64Range(0.05, 2).Draw(rt, "cv")
		dispersion := mean * cv
		p.BaselineDispersion = &dispersion
	}
	return p
}

func TestProperty_HalfEffectNeedsAtLeastAsManySamples(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		result, err := BuildPlan(drawParams(rt))
		require.NoError(rt, err)

		require.GreaterOrEqual(rt, result.ExpectedNHalfEffect, result.ExpectedNH1)
		require.GreaterOrEqual(rt, result.ExpectedNH1, float64(result.MinN))
		require.LessOrEqual(rt, result.ExpectedNHalfEffect, float64(result.MaxN))
		require.Equal(rt, result.ExpectedNH0, result.ExpectedNH1)
	})
}

func TestProperty_LargerEffectNeedsFewerSamples(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := drawParams(rt)
		small, err := BuildPlan(p)
		require.NoError(rt, err)

		factor := rapid.Float64Range(1, 5).Draw(rt, "factor")
		p.Improvement = plan.Relative(p.Improvement.Value * factor)
		large, err := BuildPlan(p)
		require.NoError(rt, err)

		require.LessOrEqual(rt, large.ExpectedNH1, small.ExpectedNH1)
	})
}

func TestProperty_StricterAlphaNeedsMoreSamples(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := drawParams(rt)
		p.DispersionMode = plan.DispersionKnown
		if p.BaselineDispersion == nil {
			d := p.BaselineMean * 0.5
			p.BaselineDispersion = &d
		}
		loose, err := BuildPlan(p)
		require.NoError(rt, err)

		p.Alpha = rapid.Float64Range(0.001, p.Alpha).Draw(rt, "stricterAlpha")
		strict, err := BuildPlan(p)
		require.NoError(rt, err)

		require.GreaterOrEqual(rt, strict.ExpectedNH1, loose.ExpectedNH1)
	})
}

func TestProperty_ExpectedNIgnoresBeta(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := drawParams(rt)
		first, err := BuildPlan(p)
		require.NoError(rt, err)

		p.Beta = rapid.Float64Range(0.01, 0.5).Draw(rt, "otherBeta")
		second, err := BuildPlan(p)
		require.NoError(rt, err)

		require.Equal(rt, first.ExpectedNH1, second.ExpectedNH1)
		require.Equal(rt, first.ExpectedNHalfEffect, second.ExpectedNHalfEffect)
	})
}

func TestProperty_BoundaryShrinksWithN(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.Float64Range(3, 1e6).Draw(rt, "n")
		more := n * rapid.Float64Range(1.01, 10).Draw(rt, "growth")
		dispersion := rapid.Float64Range(0.01, 1000).Draw(rt, "dispersion")
		alpha := rapid.Float64Range(0.01, 0.1).Draw(rt, "alpha")
		useTTest := rapid.Bool().Draw(rt, "useTTest")

		before, err := BoundaryAt(n, dispersion, alpha, useTTest)
		require.NoError(rt, err)
		after, err := BoundaryAt(more, dispersion, alpha, useTTest)
		require.NoError(rt, err)

		require.Less(rt, after, before)
	})
}
