package dispersion

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"teamtools/domain/core"
)

// Planning constants for conversion metrics: 5% two-sided significance and
// 80% power, in their conventional rounded form
const (
	conversionZAlpha = 1.96
	conversionZBeta  = 0.84
)

var relativeEffects = []float64{0.05, 0.10, 0.15, 0.20, 0.25}

// ConversionSummary describes conversion-rate history across periods
type ConversionSummary struct {
	Periods          int       `json:"n_periods"`
	Rates            []float64 `json:"conversion_rates"`
	MeanRate         float64   `json:"mean_rate"`
	ObservedStd      float64   `json:"std_dev_observed"`
	TheoreticalStd   float64   `json:"theoretical_std"`
	TotalConversions float64   `json:"total_conversions"`
	TotalVisitors    float64   `json:"total_visitors"`
	PooledRate       float64   `json:"pooled_rate"`
	PooledStd        float64   `json:"pooled_std"`
	AvgVisitors      float64   `json:"avg_visitors_per_period"`
	CILower          float64   `json:"ci_lower"`
	CIUpper          float64   `json:"ci_upper"`
	CIMargin         float64   `json:"ci_margin"`
}

// FromConversionData summarizes per-period conversions and visitors
func FromConversionData(conversions, visitors []float64) (*ConversionSummary, error) {
	if len(conversions) != len(visitors) {
		return nil, core.NewDomainError("conversions", "and visitors must have the same length")
	}
	if len(conversions) < 2 {
		return nil, core.NewDomainError("conversions", "need at least 2 periods")
	}

	rates := make([]float64, len(conversions))
	for i := range conversions {
		if visitors[i] <= 0 {
			return nil, core.NewDomainError("visitors", fmt.Sprintf("period %d has no visitors", i+1))
		}
		if conversions[i] < 0 || conversions[i] > visitors[i] {
			return nil, core.NewDomainError("conversions", fmt.Sprintf("period %d must be between 0 and its visitors", i+1))
		}
		rates[i] = conversions[i] / visitors[i]
	}

	meanRate, err := stats.Mean(rates)
	if err != nil {
		return nil, fmt.Errorf("mean rate: %w", err)
	}
	observed, err := stats.StandardDeviationSample(rates)
	if err != nil {
		return nil, fmt.Errorf("rate std: %w", err)
	}
	totalConversions, err := stats.Sum(conversions)
	if err != nil {
		return nil, fmt.Errorf("total conversions: %w", err)
	}
	totalVisitors, err := stats.Sum(visitors)
	if err != nil {
		return nil, fmt.Errorf("total visitors: %w", err)
	}
	avgVisitors := totalVisitors / float64(len(visitors))

	pooled := totalConversions / totalVisitors
	pooledStd := math.Sqrt(pooled * (1 - pooled) / totalVisitors)
	margin := conversionZAlpha * pooledStd

	return &ConversionSummary{
		Periods:          len(rates),
		Rates:            rates,
		MeanRate:         meanRate,
		ObservedStd:      observed,
		TheoreticalStd:   math.Sqrt(meanRate * (1 - meanRate) / avgVisitors),
		TotalConversions: totalConversions,
		TotalVisitors:    totalVisitors,
		PooledRate:       pooled,
		PooledStd:        pooledStd,
		AvgVisitors:      avgVisitors,
		CILower:          math.Max(0, pooled-margin),
		CIUpper:          math.Min(1, pooled+margin),
		CIMargin:         margin,
	}, nil
}

// EffectRequirement is the per-group sample size for one relative effect
type EffectRequirement struct {
	RelativeEffect float64 `json:"relative_effect"`
	AbsoluteEffect float64 `json:"absolute_effect"`
	SampleSize     int     `json:"sample_size_needed"`
}

// ConversionRateProfile is the theoretical dispersion of a conversion rate at a
// given traffic level, and what that traffic can detect
type ConversionRateProfile struct {
	BaselineRate  float64             `json:"baseline_rate"`
	SampleSize    int                 `json:"sample_size"`
	StdDev        float64             `json:"std_dev"`
	StandardError float64             `json:"standard_error"`
	CILower       float64             `json:"ci_lower"`
	CIUpper       float64             `json:"ci_upper"`
	CIMargin      float64             `json:"ci_margin"`
	MDEAbsolute   float64             `json:"mde_absolute"`
	MDERelative   float64             `json:"mde_relative"`
	Requirements  []EffectRequirement `json:"sample_sizes_for_effects"`
}

// ConversionRate profiles a baseline conversion rate at n visitors per group
func ConversionRate(rate float64, n int) (*ConversionRateProfile, error) {
	if !(rate > 0 && rate < 1) {
		return nil, core.NewDomainError("baseline_rate", "must be between 0 and 1")
	}
	if n <= 0 {
		return nil, core.ErrNonPositiveSampleSize
	}

	bernoulli := rate * (1 - rate)
	sd := math.Sqrt(bernoulli / float64(n))
	margin := conversionZAlpha * sd
	z := conversionZAlpha + conversionZBeta
	mde := z * math.Sqrt(2*bernoulli/float64(n))

	requirements := make([]EffectRequirement, 0, len(relativeEffects))
	for _, effect := range relativeEffects {
		delta := rate * effect
		needed := math.Ceil(2 * (z * z) * rate * (1 - rate) / (delta * delta))
		if needed > maxSampleSize {
			return nil, core.NewDomainError("baseline_rate", fmt.Sprintf("is too small: required sample size exceeds %d", maxSampleSize))
		}
		requirements = append(requirements, EffectRequirement{
			RelativeEffect: effect * 100,
			AbsoluteEffect: delta,
			SampleSize:     int(needed),
		})
	}

	return &ConversionRateProfile{
		BaselineRate:  rate,
		SampleSize:    n,
		StdDev:        sd,
		StandardError: sd,
		CILower:       math.Max(0, rate-margin),
		CIUpper:       math.Min(1, rate+margin),
		CIMargin:      margin,
		MDEAbsolute:   mde,
		MDERelative:   mde / rate * 100,
		Requirements:  requirements,
	}, nil
}
