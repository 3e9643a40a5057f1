package dispersion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamtools/domain/core"
)

func TestFromSamples(t *testing.T) {
	summary, err := FromSamples([]float64{10, 12, 14, 16, 18})
	require.NoError(t, err)

	assert.Equal(t, 5, summary.N)
	assert.InDelta(t, 14.0, summary.Mean, 1e-12)
	assert.InDelta(t, 14.0, summary.Median, 1e-12)
	assert.InDelta(t, 10.0, summary.Variance, 1e-12)
	assert.InDelta(t, 3.1622776601683795, summary.StdDev, 1e-12)
	assert.Equal(t, 10.0, summary.Min)
	assert.Equal(t, 18.0, summary.Max)
	assert.InDelta(t, 22.58769757263128, summary.CV, 1e-9)
	assert.InDelta(t, 1.4142135623730951, summary.SEM, 1e-12)
	assert.InDelta(t, 11.227582920876907, summary.CILower, 1e-9)
	assert.InDelta(t, 16.77241707912309, summary.CIUpper, 1e-9)
}

func TestFromSamples_EvenCountMedian(t *testing.T) {
	summary, err := FromSamples([]float64{4, 1, 3, 2})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, summary.Median, 1e-12)
}

func TestFromSamples_LargeSampleUsesFixedCritical(t *testing.T) {
	xs := make([]float64, 30)
	for i := range xs {
		xs[i] = float64(i % 5)
	}
	summary, err := FromSamples(xs)
	require.NoError(t, err)
	assert.InDelta(t, 1.96*summary.SEM, summary.CIMargin, 1e-12)
}

func TestFromSamples_TooFew(t *testing.T) {
	_, err := FromSamples([]float64{1})
	assert.ErrorIs(t, err, core.ErrDomain)
}

func TestFromRange(t *testing.T) {
	est, err := FromRange(10, 50, RangeRule)
	require.NoError(t, err)
	assert.Equal(t, 10.0, est.EstimatedStd)
	assert.Equal(t, 30.0, est.MeanEstimate)
	assert.InDelta(t, 33.33333333333333, est.CVEstimate, 1e-9)
	assert.Equal(t, "Range Rule (Range ÷ 4)", est.Method)

	est, err = FromRange(10, 70, SixSigma)
	require.NoError(t, err)
	assert.Equal(t, 10.0, est.EstimatedStd)

	_, err = FromRange(50, 10, RangeRule)
	assert.ErrorIs(t, err, core.ErrDomain)
	_, err = FromRange(10, 50, "eight_sigma")
	assert.ErrorIs(t, err, core.ErrDomain)
}

func TestFromQuartiles(t *testing.T) {
	est, err := FromQuartiles(20, 30, 47)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, est.EstimatedStdIQR, 1e-12)
	assert.InDelta(t, 20.014825796886583, est.EstimatedStdMAD, 1e-12)
	assert.Equal(t, 27.0, est.IQR)

	_, err = FromQuartiles(30, 20, 47)
	assert.ErrorIs(t, err, core.ErrDomain)
}

func TestFromConversionData(t *testing.T) {
	summary, err := FromConversionData([]float64{50, 60, 55}, []float64{1000, 1000, 1100})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Periods)
	assert.InDeltaSlice(t, []float64{0.05, 0.06, 0.05}, summary.Rates, 1e-12)
	assert.InDelta(t, 0.05333333333333334, summary.MeanRate, 1e-12)
	assert.InDelta(t, 0.0057735026918962545, summary.ObservedStd, 1e-12)
	assert.InDelta(t, 0.006990008229878091, summary.TheoreticalStd, 1e-12)
	assert.InDelta(t, 0.0532258064516129, summary.PooledRate, 1e-12)
	assert.InDelta(t, 0.045323396504129754, summary.CILower, 1e-12)
	assert.InDelta(t, 0.06112821639909605, summary.CIUpper, 1e-12)
}

func TestFromConversionData_RejectsBadInput(t *testing.T) {
	tests := map[string][2][]float64{
		"length mismatch":    {{1, 2}, {10}},
		"single period":      {{1}, {10}},
		"zero visitors":      {{1, 2}, {10, 0}},
		"exceeding visitors": {{11, 2}, {10, 10}},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromConversionData(in[0], in[1])
			assert.ErrorIs(t, err, core.ErrDomain)
		})
	}
}

func TestConversionRate(t *testing.T) {
	profile, err := ConversionRate(0.05, 10000)
	require.NoError(t, err)

	assert.InDelta(t, 0.0021794494717703367, profile.StdDev, 1e-15)
	assert.Equal(t, profile.StdDev, profile.StandardError)
	assert.InDelta(t, 0.045728279035330145, profile.CILower, 1e-12)
	assert.InDelta(t, 0.008630179604156567, profile.MDEAbsolute, 1e-12)
	assert.InDelta(t, 17.260359208313133, profile.MDERelative, 1e-9)

	require.Len(t, profile.Requirements, 5)
	assert.Equal(t, 5.0, profile.Requirements[0].RelativeEffect)
	assert.Equal(t, 13241, profile.Requirements[2].SampleSize)
	assert.Equal(t, 4767, profile.Requirements[4].SampleSize)
	for i := 1; i < len(profile.Requirements); i++ {
		assert.Less(t, profile.Requirements[i].SampleSize, profile.Requirements[i-1].SampleSize)
	}

	_, err = ConversionRate(1.2, 100)
	assert.ErrorIs(t, err, core.ErrDomain)
	_, err = ConversionRate(0.05, 0)
	assert.ErrorIs(t, err, core.ErrNonPositiveSampleSize)
}

func TestConversionRate_RejectsUnreachableSampleSize(t *testing.T) {
	_, err := ConversionRate(1e-9, 1000)
	assert.ErrorIs(t, err, core.ErrDomain)
}

func TestSamplesForPrecision(t *testing.T) {
	req, err := SamplesForPrecision(0.1, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 193, req.NRequired)
	assert.Equal(t, "With 193 samples, you can estimate the standard deviation within ±10.0% with 95% confidence", req.Interpretation)

	_, err = SamplesForPrecision(0, 0.95)
	assert.ErrorIs(t, err, core.ErrDomain)
	_, err = SamplesForPrecision(0.1, 1)
	assert.ErrorIs(t, err, core.ErrDomain)
	_, err = SamplesForPrecision(1e-6, 0.95)
	assert.ErrorIs(t, err, core.ErrDomain)
}

func TestDescribeShape_Symmetric(t *testing.T) {
	shape, err := DescribeShape([]float64{10, 12, 14, 16, 18})
	require.NoError(t, err)
	require.NotNil(t, shape)

	assert.InDelta(t, 0.0, shape.Skewness, 1e-12)
	assert.InDelta(t, -1.2, shape.ExcessKurtosis, 1e-12)
	assert.InDelta(t, 0.35208333333333336, shape.JarqueBera, 1e-9)
	assert.InDelta(t, math.Exp(-shape.JarqueBera/2), shape.NormalityP, 1e-9)
	assert.True(t, shape.LooksNormal)
	assert.Zero(t, shape.Outliers)
}

func TestDescribeShape_SkewedWithOutlier(t *testing.T) {
	shape, err := DescribeShape([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100})
	require.NoError(t, err)
	require.NotNil(t, shape)

	assert.Greater(t, shape.Skewness, 2.0)
	assert.False(t, shape.LooksNormal)
	assert.Equal(t, 1, shape.Outliers)
}

func TestDescribeShape_NotEnoughInformation(t *testing.T) {
	shape, err := DescribeShape([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Nil(t, shape)

	shape, err = DescribeShape([]float64{5, 5, 5, 5})
	require.NoError(t, err)
	assert.Nil(t, shape)
}

func TestFromSamples_IncludesShape(t *testing.T) {
	summary, err := FromSamples([]float64{10, 12, 14, 16, 18})
	require.NoError(t, err)
	require.NotNil(t, summary.Shape)

	summary, err = FromSamples([]float64{1, 2})
	require.NoError(t, err)
	assert.Nil(t, summary.Shape)
}
