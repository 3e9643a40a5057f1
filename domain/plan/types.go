package plan

import (
	"teamtools/domain/core"
)

// DispersionMode says how much is known about the baseline standard deviation
type DispersionMode string

const (
	DispersionKnown     DispersionMode = "known"
	DispersionEstimated DispersionMode = "estimated"
	DispersionUnknown   DispersionMode = "unknown"
)

// EstimationMethod selects the coefficient of variation assumed when no
// empirical dispersion exists
type EstimationMethod string

const (
	EstimateConservative EstimationMethod = "conservative" // 50% CV
	EstimateModerate     EstimationMethod = "moderate"     // 30% CV
	EstimateOptimistic   EstimationMethod = "optimistic"   // 20% CV
)

// ImprovementKind distinguishes raw-metric improvements from percentages of the baseline
type ImprovementKind string

const (
	ImprovementAbsolute ImprovementKind = "absolute"
	ImprovementRelative ImprovementKind = "relative"
)

// Improvement is the expected change between control and treatment. Exactly one
// representation is supplied; the sign may be negative.
type Improvement struct {
	Kind  ImprovementKind `json:"kind"`
	Value float64         `json:"value"`
}

// Absolute returns an improvement in metric units
func Absolute(v float64) Improvement {
	return Improvement{Kind: ImprovementAbsolute, Value: v}
}

// Relative returns an improvement in percent of the baseline
func Relative(pct float64) Improvement {
	return Improvement{Kind: ImprovementRelative, Value: pct}
}

const (
	DefaultVarianceInflationFactor = 1.5
	DefaultMixingVarianceFactor    = 2.0
)

// TestParameters are the validated inputs of a sequential plan.
// WeeklyVisitors and MaxWeeks are optional; zero means not supplied.
type TestParameters struct {
	BaselineMean            float64        `json:"baseline_mean"`
	DispersionMode          DispersionMode `json:"std_known"`
	BaselineDispersion      *float64       `json:"baseline_std,omitempty"`
	Improvement             Improvement    `json:"improvement"`
	Alpha                   float64        `json:"alpha"`
	Beta                    float64        `json:"beta"`
	MinN                    int            `json:"min_n"`
	MaxN                    int            `json:"max_n"`
	WeeklyVisitors          int            `json:"weekly_visitors,omitempty"`
	MaxWeeks                int            `json:"max_weeks,omitempty"`
	VarianceInflationFactor float64        `json:"variance_inflation_factor"`
	MixingVarianceFactor    float64        `json:"mixing_variance_factor"`
}

// WithDefaults fills unset calibration factors with their defaults
func (p TestParameters) WithDefaults() TestParameters {
	if p.VarianceInflationFactor == 0 {
		p.VarianceInflationFactor = DefaultVarianceInflationFactor
	}
	if p.MixingVarianceFactor == 0 {
		p.MixingVarianceFactor = DefaultMixingVarianceFactor
	}
	return p
}

// HasWeeklyCadence reports whether a week-indexed table should be produced
func (p TestParameters) HasWeeklyCadence() bool {
	return p.WeeklyVisitors > 0 && p.MaxWeeks > 0
}

// Decision is the per-week verdict of the monitoring plan
type Decision string

const (
	SignificantImprovement Decision = "SIGNIFICANT_IMPROVEMENT"
	SignificantDecline     Decision = "SIGNIFICANT_DECLINE"
	KeepTesting            Decision = "KEEP_TESTING"
)

// IsSignificant reports whether the decision stops the test
func (d Decision) IsSignificant() bool {
	return d == SignificantImprovement || d == SignificantDecline
}

// Label is the plain display text of a decision
func (d Decision) Label() string {
	switch d {
	case SignificantImprovement:
		return "Significant Improvement"
	case SignificantDecline:
		return "Significant Decline"
	default:
		return "Keep Testing"
	}
}

// BoundaryPoint is the decision boundary evaluated at one checkpoint
type BoundaryPoint struct {
	N             int     `json:"n"`
	StandardError float64 `json:"se"`
	BoundaryUpper float64 `json:"boundary_upper"`
	BoundaryLower float64 `json:"boundary_lower"`
	CILower       float64 `json:"ci_lower"`
	CIUpper       float64 `json:"ci_upper"`
	RelCILower    float64 `json:"rel_ci_lower"`
	RelCIUpper    float64 `json:"rel_ci_upper"`
}

// WeekStatus is a BoundaryPoint on the weekly cadence with a decision attached
type WeekStatus struct {
	BoundaryPoint
	Week        int      `json:"week"`
	Decision    Decision `json:"decision"`
	Explanation string   `json:"explanation"`
}

// MonitoringMode names which monitoring table a plan carries
type MonitoringMode string

const (
	MonitoringGrid   MonitoringMode = "grid"
	MonitoringWeekly MonitoringMode = "weekly"
)

// PlanResult is the full output of a sequential planning call.
// Exactly one of MonitoringPoints / WeeklyPoints is populated, according to MonitoringMode.
type PlanResult struct {
	PlanID core.PlanID `json:"plan_id,omitempty"`

	// ParametersHash identifies the resolved inputs; equal hashes mean identical plans
	ParametersHash core.Hash `json:"parameters_hash,omitempty"`

	BaselineMean        float64 `json:"baseline_mean"`
	Dispersion          float64 `json:"baseline_std"`
	OriginalDispersion  float64 `json:"original_std"`
	DispersionMethod    string  `json:"std_method"`
	DispersionEstimated bool    `json:"std_estimated"`

	TestMean             float64 `json:"test_mean"`
	AbsoluteImprovement  float64 `json:"absolute_improvement"`
	RelativeImprovement  float64 `json:"relative_improvement"`
	EffectSize           float64 `json:"effect_size"`
	CalibratedEffectSize float64 `json:"calibrated_effect_size"`
	UseTTest             bool    `json:"use_t_test"`

	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Power float64 `json:"power"`
	A     float64 `json:"A"`
	B     float64 `json:"B"`

	ExpectedNH0         float64 `json:"expected_n_h0"`
	ExpectedNH1         float64 `json:"expected_n_h1"`
	ExpectedNHalfEffect float64 `json:"expected_n_half_effect"`
	ExpectedWeeksH1     float64 `json:"expected_weeks_h1,omitempty"`

	MinN           int     `json:"min_n"`
	MaxN           int     `json:"max_n"`
	EfficiencyGain float64 `json:"efficiency_gain"`

	WeeklyVisitors          int     `json:"weekly_visitors,omitempty"`
	MaxWeeks                int     `json:"max_weeks,omitempty"`
	VarianceInflationFactor float64 `json:"variance_inflation_factor"`
	MixingVarianceFactor    float64 `json:"mixing_variance_factor"`

	MonitoringMode   MonitoringMode  `json:"monitoring_mode"`
	MonitoringPoints []BoundaryPoint `json:"monitoring_points,omitempty"`
	WeeklyPoints     []WeekStatus    `json:"weekly_points,omitempty"`
}

// ConsistencyReport compares the first significant week of the weekly table
// with the expected-sample-size milestone
type ConsistencyReport struct {
	Consistent           bool    `json:"consistent"`
	Checked              bool    `json:"checked"`
	ExpectedWeeks        float64 `json:"expected_weeks,omitempty"`
	FirstSignificantWeek int     `json:"first_significant_week,omitempty"`
	Difference           float64 `json:"difference,omitempty"`
	Tolerance            float64 `json:"tolerance"`
	Reason               string  `json:"reason"`
}

// Sidedness of a fixed-horizon test
type Sidedness string

const (
	TwoSided Sidedness = "two-sided"
	OneSided Sidedness = "one-sided"
)

// FixedHorizonParams are the inputs of a classic fixed-sample-size calculation.
// A nil BaselineDispersion means it is unknown and will be estimated.
type FixedHorizonParams struct {
	BaselineMean       float64     `json:"baseline_mean"`
	BaselineDispersion *float64    `json:"baseline_std,omitempty"`
	Improvement        Improvement `json:"improvement"`
	Power              float64     `json:"power"`
	Alpha              float64     `json:"alpha"`
	Sidedness          Sidedness   `json:"test_type"`
}

// FixedHorizonResult is the output of a fixed-horizon calculation
type FixedHorizonResult struct {
	BaselineMean        float64   `json:"baseline_mean"`
	Dispersion          float64   `json:"baseline_std"`
	DispersionEstimated bool      `json:"std_estimated"`
	TestMean            float64   `json:"test_mean"`
	AbsoluteImprovement float64   `json:"absolute_improvement"`
	RelativeImprovement float64   `json:"relative_improvement"`
	EffectSize          float64   `json:"effect_size"`
	EffectSizeCILower   float64   `json:"effect_size_ci_lower"`
	EffectSizeCIUpper   float64   `json:"effect_size_ci_upper"`
	SampleSizePerGroup  int       `json:"sample_size_per_group"`
	TotalSampleSize     int       `json:"total_sample_size"`
	AchievedPower       float64   `json:"achieved_power"`
	Power               float64   `json:"power"`
	Alpha               float64   `json:"alpha"`
	Sidedness           Sidedness `json:"test_type"`
}
