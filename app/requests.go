package app

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"teamtools/domain/plan"
	"teamtools/internal/errors"
)

// requestValidate is shared by every request type; validator.Validate caches
// struct metadata and is safe for concurrent use
var requestValidate = validator.New()

// PlanRequest is the transport-facing form of plan.TestParameters.
// Zero calibration factors are replaced with the configured defaults.
type PlanRequest struct {
	BaselineMean            float64  `json:"baseline_mean" validate:"gt=0"`
	StdKnown                string   `json:"std_known" validate:"required,oneof=known estimated unknown"`
	BaselineStd             *float64 `json:"baseline_std,omitempty" validate:"omitempty,gt=0"`
	ImprovementType         string   `json:"improvement_type" validate:"required,oneof=absolute relative"`
	ImprovementValue        float64  `json:"improvement_value"`
	Alpha                   float64  `json:"alpha" validate:"gt=0,lt=1"`
	Beta                    float64  `json:"beta" validate:"gt=0,lt=1"`
	MinN                    int      `json:"min_n" validate:"gt=0"`
	MaxN                    int      `json:"max_n" validate:"gtefield=MinN"`
	WeeklyVisitors          int      `json:"weekly_visitors,omitempty" validate:"gte=0"`
	MaxWeeks                int      `json:"max_weeks,omitempty" validate:"gte=0"`
	VarianceInflationFactor float64  `json:"variance_inflation_factor,omitempty" validate:"gte=0"`
	MixingVarianceFactor    float64  `json:"mixing_variance_factor,omitempty" validate:"gte=0"`
}

// Validate checks field-level constraints
func (r PlanRequest) Validate() error {
	if err := validationError(requestValidate.Struct(r)); err != nil {
		return err
	}
	if r.StdKnown == string(plan.DispersionKnown) && r.BaselineStd == nil {
		return errors.ValidationError("baseline_std is required when std_known is known")
	}
	return nil
}

// Parameters converts the request into engine input
func (r PlanRequest) Parameters() plan.TestParameters {
	p := plan.TestParameters{
		BaselineMean:            r.BaselineMean,
		DispersionMode:          plan.DispersionMode(r.StdKnown),
		Improvement:             plan.Improvement{Kind: plan.ImprovementKind(r.ImprovementType), Value: r.ImprovementValue},
		Alpha:                   r.Alpha,
		Beta:                    r.Beta,
		MinN:                    r.MinN,
		MaxN:                    r.MaxN,
		WeeklyVisitors:          r.WeeklyVisitors,
		MaxWeeks:                r.MaxWeeks,
		VarianceInflationFactor: r.VarianceInflationFactor,
		MixingVarianceFactor:    r.MixingVarianceFactor,
	}
	if p.DispersionMode != plan.DispersionUnknown && r.BaselineStd != nil {
		std := *r.BaselineStd
		p.BaselineDispersion = &std
	}
	return p
}

// FixedHorizonRequest is the transport-facing form of plan.FixedHorizonParams
type FixedHorizonRequest struct {
	BaselineMean     float64  `json:"baseline_mean" validate:"gt=0"`
	BaselineStd      *float64 `json:"baseline_std,omitempty" validate:"omitempty,gt=0"`
	ImprovementType  string   `json:"improvement_type" validate:"required,oneof=absolute relative"`
	ImprovementValue float64  `json:"improvement_value" validate:"required"`
	Power            float64  `json:"power" validate:"gt=0,lt=1"`
	Alpha            float64  `json:"alpha" validate:"gt=0,lt=1"`
	TestType         string   `json:"test_type,omitempty" validate:"omitempty,oneof=two-sided one-sided"`
}

// Validate checks field-level constraints
func (r FixedHorizonRequest) Validate() error {
	return validationError(requestValidate.Struct(r))
}

// Parameters converts the request into engine input
func (r FixedHorizonRequest) Parameters() plan.FixedHorizonParams {
	return plan.FixedHorizonParams{
		BaselineMean:       r.BaselineMean,
		BaselineDispersion: r.BaselineStd,
		Improvement:        plan.Improvement{Kind: plan.ImprovementKind(r.ImprovementType), Value: r.ImprovementValue},
		Power:              r.Power,
		Alpha:              r.Alpha,
		Sidedness:          plan.Sidedness(r.TestType),
	}
}

// SweepRequest evaluates one plan request at several improvement values.
// Improvements are interpreted with Base.ImprovementType.
type SweepRequest struct {
	Base         PlanRequest `json:"base"`
	Improvements []float64   `json:"improvements" validate:"required,min=1,max=200"`
}

// Validate checks field-level constraints, including those of Base
func (r SweepRequest) Validate() error {
	if err := validationError(requestValidate.Struct(r)); err != nil {
		return err
	}
	return r.Base.Validate()
}

// validationError flattens validator output into a single coded error
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Wrap(err, "request validation failed")
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.ValidationError(strings.Join(msgs, "; "))
}
