package app

import (
	"context"
	"fmt"
	"time"

	"teamtools/domain/core"
	"teamtools/domain/plan"
	"teamtools/internal"
	"teamtools/internal/config"
	"teamtools/internal/errors"
	"teamtools/internal/fixedhorizon"
	"teamtools/internal/metrics"
	"teamtools/internal/sequential"
)

// PlanService validates requests, applies configured defaults and runs the
// sequential and fixed-horizon engines
type PlanService struct {
	cfg    config.PlannerConfig
	logger *internal.Logger
}

// NewPlanService creates a plan service
func NewPlanService(cfg config.PlannerConfig, logger *internal.Logger) *PlanService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PlanService{cfg: cfg, logger: logger.Named("plan")}
}

// Plan builds an mSPRT monitoring plan and stamps it with a fresh PlanID
func (s *PlanService) Plan(ctx context.Context, req PlanRequest) (*plan.PlanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params, err := s.parameters(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := sequential.BuildPlan(params)
	metrics.ObserveCalculation(metrics.KindSequential, start, err)
	if err != nil {
		s.logger.Warn("plan rejected: %v", err)
		return nil, errors.DomainError(err)
	}
	result.PlanID = core.NewPlanID()
	if result.ParametersHash, err = core.HashJSON(params); err != nil {
		return nil, errors.Wrap(err, "failed to hash plan parameters")
	}
	metrics.ObserveMonitoringPoints(len(result.MonitoringPoints) + len(result.WeeklyPoints))

	s.logger.Debug("plan %s: mode=%s expected_n_h1=%.1f half_effect_n=%.1f points=%d in %s",
		result.PlanID, result.MonitoringMode, result.ExpectedNH1, result.ExpectedNHalfEffect,
		len(result.MonitoringPoints)+len(result.WeeklyPoints), time.Since(start))
	return result, nil
}

// PlanWithConsistency builds a plan and checks its weekly table against its
// expected timeline
func (s *PlanService) PlanWithConsistency(ctx context.Context, req PlanRequest) (*plan.PlanResult, plan.ConsistencyReport, error) {
	result, err := s.Plan(ctx, req)
	if err != nil {
		return nil, plan.ConsistencyReport{}, err
	}
	report := sequential.CheckConsistency(result)
	if report.Checked && !report.Consistent {
		s.logger.Warn("plan %s inconsistent: %s", result.PlanID, report.Reason)
	}
	return result, report, nil
}

// FixedHorizon sizes a classic fixed-sample test
func (s *PlanService) FixedHorizon(ctx context.Context, req FixedHorizonRequest) (*plan.FixedHorizonResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.logger.Debug("fixed horizon: baseline_mean=%v improvement=%s/%v", req.BaselineMean, req.ImprovementType, req.ImprovementValue)
	start := time.Now()
	result, err := fixedhorizon.Calculate(req.Parameters())
	metrics.ObserveCalculation(metrics.KindFixedHorizon, start, err)
	if err != nil {
		s.logger.Error("fixed horizon calculation failed: %v", err)
		return nil, errors.DomainError(err)
	}
	s.logger.Debug("fixed horizon: sample_size_per_group=%d", result.SampleSizePerGroup)
	return result, nil
}

// parameters validates req and fills calibration defaults from configuration
func (s *PlanService) parameters(req PlanRequest) (plan.TestParameters, error) {
	if err := req.Validate(); err != nil {
		return plan.TestParameters{}, err
	}
	if s.cfg.MaxWeeksLimit > 0 && req.MaxWeeks > s.cfg.MaxWeeksLimit {
		return plan.TestParameters{}, errors.ValidationError(fmt.Sprintf("max_weeks %d exceeds the limit of %d", req.MaxWeeks, s.cfg.MaxWeeksLimit))
	}

	params := req.Parameters()
	if params.VarianceInflationFactor == 0 {
		params.VarianceInflationFactor = s.cfg.VarianceInflationFactor
	}
	if params.MixingVarianceFactor == 0 {
		params.MixingVarianceFactor = s.cfg.MixingVarianceFactor
	}
	return params, nil
}
