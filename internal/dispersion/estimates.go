package dispersion

import (
	"fmt"

	"teamtools/domain/core"
)

// RangeMethod selects how many standard deviations a min-max range spans
type RangeMethod string

const (
	RangeRule RangeMethod = "range_rule" // range ≈ 4σ
	SixSigma  RangeMethod = "six_sigma"  // range ≈ 6σ
)

// RangeEstimate is a rough dispersion derived from the extremes of a metric
type RangeEstimate struct {
	EstimatedStd float64 `json:"estimated_std"`
	Min          float64 `json:"min_val"`
	Max          float64 `json:"max_val"`
	Range        float64 `json:"range"`
	Method       string  `json:"method"`
	Accuracy     string  `json:"accuracy"`
	MeanEstimate float64 `json:"mean_estimate"`
	CVEstimate   float64 `json:"cv_estimate"`
}

// FromRange estimates σ from a min-max range
func FromRange(lo, hi float64, method RangeMethod) (*RangeEstimate, error) {
	if hi <= lo {
		return nil, core.NewDomainError("range", "max must exceed min")
	}
	if method == "" {
		method = RangeRule
	}

	r := hi - lo
	est := &RangeEstimate{Min: lo, Max: hi, Range: r, MeanEstimate: (lo + hi) / 2}
	switch method {
	case RangeRule:
		est.EstimatedStd = r / 4
		est.Method = "Range Rule (Range ÷ 4)"
		est.Accuracy = "Rough estimate"
	case SixSigma:
		est.EstimatedStd = r / 6
		est.Method = "Six Sigma Rule (Range ÷ 6)"
		est.Accuracy = "Conservative estimate"
	default:
		return nil, core.NewDomainError("method", fmt.Sprintf("has unsupported value %q", method))
	}
	if est.MeanEstimate != 0 {
		est.CVEstimate = est.EstimatedStd / est.MeanEstimate * 100
	}
	return est, nil
}

// iqrPerSigma is the interquartile range of a unit normal
const (
	iqrPerSigma = 1.35
	madPerSigma = 0.6745
)

// QuartileEstimate derives σ from the interquartile range assuming normality
type QuartileEstimate struct {
	EstimatedStdIQR float64 `json:"estimated_std_iqr"`
	EstimatedStdMAD float64 `json:"estimated_std_mad"`
	IQR             float64 `json:"iqr"`
	Q1              float64 `json:"q1"`
	Median          float64 `json:"median"`
	Q3              float64 `json:"q3"`
	Method          string  `json:"method"`
	Accuracy        string  `json:"accuracy"`
}

// FromQuartiles estimates σ as IQR/1.35, and alternatively from the MAD
// approximation IQR/(2·0.6745)
func FromQuartiles(q1, median, q3 float64) (*QuartileEstimate, error) {
	if !(q1 <= median && median <= q3) || q3 == q1 {
		return nil, core.NewDomainError("quartiles", "must satisfy q1 <= median <= q3 with q1 < q3")
	}
	iqr := q3 - q1
	return &QuartileEstimate{
		EstimatedStdIQR: iqr / iqrPerSigma,
		EstimatedStdMAD: iqr / (2 * madPerSigma),
		IQR:             iqr,
		Q1:              q1,
		Median:          median,
		Q3:              q3,
		Method:          "Interquartile Range (IQR ÷ 1.35)",
		Accuracy:        "Good estimate for normal data",
	}, nil
}
