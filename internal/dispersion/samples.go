// Package dispersion estimates a metric's standard deviation from whatever
// the experimenter has on hand: raw observations, a range, quartiles, or
// conversion counts. The results feed the baseline dispersion of a plan.
package dispersion

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"teamtools/domain/core"
	"teamtools/internal/sequential"
)

// largeSampleCritical is the 95% two-sided z used once n reaches 30
const largeSampleCritical = 1.96

// maxSampleSize bounds any computed sample size so it fits an int on every platform
const maxSampleSize = math.MaxInt32

// SampleSummary describes a set of observations
type SampleSummary struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	CV       float64 `json:"cv"`
	SEM      float64 `json:"sem"`
	CILower  float64 `json:"ci_lower"`
	CIUpper  float64 `json:"ci_upper"`
	CIMargin float64 `json:"ci_margin"`
	Shape    *Shape  `json:"shape,omitempty"`
}

// FromSamples summarizes raw observations using the sample (n-1) variance
func FromSamples(xs []float64) (*SampleSummary, error) {
	if len(xs) < 2 {
		return nil, core.NewDomainError("data_points", "need at least 2 values")
	}
	data := stats.Float64Data(xs)

	mean, err := stats.Mean(data)
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, fmt.Errorf("median: %w", err)
	}
	variance, err := stats.SampleVariance(data)
	if err != nil {
		return nil, fmt.Errorf("variance: %w", err)
	}
	lo, err := stats.Min(data)
	if err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	hi, err := stats.Max(data)
	if err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}

	n := len(xs)
	sd := math.Sqrt(variance)
	cv := 0.0
	if mean != 0 {
		cv = sd / mean * 100
	}
	sem := sd / math.Sqrt(float64(n))

	critical := largeSampleCritical
	if n < 30 {
		if critical, err = sequential.NormPpf(0.975); err != nil {
			return nil, err
		}
	}
	margin := critical * sem

	shape, err := DescribeShape(xs)
	if err != nil {
		return nil, err
	}

	return &SampleSummary{
		N:        n,
		Mean:     mean,
		Median:   median,
		StdDev:   sd,
		Variance: variance,
		Min:      lo,
		Max:      hi,
		CV:       cv,
		SEM:      sem,
		CILower:  mean - margin,
		CIUpper:  mean + margin,
		CIMargin: margin,
		Shape:    shape,
	}, nil
}

// PrecisionRequirement is the number of observations needed to pin down a
// standard deviation to a relative precision
type PrecisionRequirement struct {
	NRequired       int     `json:"n_required"`
	TargetPrecision float64 `json:"target_precision"`
	ConfidenceLevel float64 `json:"confidence_level"`
	Interpretation  string  `json:"interpretation"`
}

// SamplesForPrecision uses the large-sample approximation CV(s) ≈ 1/√(2n).
// precision and confidence are fractions, e.g. 0.1 and 0.95.
func SamplesForPrecision(precision, confidence float64) (*PrecisionRequirement, error) {
	if !(precision > 0) {
		return nil, core.NewDomainError("target_precision", "must be positive")
	}
	z, err := sequential.NormPpf(1 - (1-confidence)/2)
	if err != nil {
		return nil, err
	}

	needed := math.Ceil(math.Pow(z/(precision*math.Sqrt2), 2))
	if needed > maxSampleSize {
		return nil, core.NewDomainError("target_precision", fmt.Sprintf("is too small: required sample size exceeds %d", maxSampleSize))
	}
	n := int(needed)
	return &PrecisionRequirement{
		NRequired:       n,
		TargetPrecision: precision * 100,
		ConfidenceLevel: confidence * 100,
		Interpretation: fmt.Sprintf("With %d samples, you can estimate the standard deviation within ±%.1f%% with %.0f%% confidence",
			n, precision*100, confidence*100),
	}, nil
}
