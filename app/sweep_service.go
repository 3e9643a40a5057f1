package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"teamtools/domain/plan"
	"teamtools/internal"
	"teamtools/internal/errors"
	"teamtools/internal/metrics"
)

// SweepRow summarizes one plan of a sweep
type SweepRow struct {
	Improvement         float64              `json:"improvement"`
	ImprovementType     plan.ImprovementKind `json:"improvement_type"`
	AbsoluteImprovement float64              `json:"absolute_improvement"`
	ExpectedNH1         float64              `json:"expected_n_h1"`
	ExpectedNHalfEffect float64              `json:"expected_n_half_effect"`
	EfficiencyGain      float64              `json:"efficiency_gain"`
	ExpectedWeeksH1     float64              `json:"expected_weeks_h1,omitempty"`
	FirstSignificant    int                  `json:"first_significant_week,omitempty"`
}

// SweepResult is the ordered set of rows of a sweep
type SweepResult struct {
	Rows []SweepRow `json:"rows"`
}

// SweepProgress reports one finished row of a running sweep
type SweepProgress struct {
	Index     int      `json:"index"`
	Completed int      `json:"completed"`
	Total     int      `json:"total"`
	Row       SweepRow `json:"row"`
}

// SweepService evaluates a plan request across several improvement values
// concurrently, bounded by a weighted semaphore
type SweepService struct {
	plans  *PlanService
	sem    *semaphore.Weighted
	logger *internal.Logger
}

// NewSweepService creates a sweep service running at most concurrency plans at once
func NewSweepService(plans *PlanService, concurrency int, logger *internal.Logger) *SweepService {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SweepService{
		plans:  plans,
		sem:    semaphore.NewWeighted(int64(concurrency)),
		logger: logger.Named("sweep"),
	}
}

// Sweep returns one row per requested improvement, in request order.
// The first failing plan cancels the rest.
func (s *SweepService) Sweep(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	return s.SweepWithProgress(ctx, req, nil)
}

// SweepWithProgress is Sweep with a callback invoked as each row finishes.
// Calls to progress are serialized but arrive in completion order.
func (s *SweepService) SweepWithProgress(ctx context.Context, req SweepRequest, progress func(SweepProgress)) (*SweepResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	rows := make([]SweepRow, len(req.Improvements))
	var mu sync.Mutex
	completed := 0
	g, gCtx := errgroup.WithContext(ctx)
	for i, improvement := range req.Improvements {
		i, improvement := i, improvement
		g.Go(func() error {
			if err := s.sem.Acquire(gCtx, 1); err != nil {
				return fmt.Errorf("failed to acquire sweep slot: %w", err)
			}
			defer s.sem.Release(1)

			planReq := req.Base
			planReq.ImprovementValue = improvement
			result, err := s.plans.Plan(gCtx, planReq)
			if err != nil {
				return errors.Wrapf(err, "improvement %v", improvement)
			}
			rows[i] = sweepRow(plan.ImprovementKind(req.Base.ImprovementType), improvement, result)

			if progress != nil {
				mu.Lock()
				completed++
				progress(SweepProgress{Index: i, Completed: completed, Total: len(rows), Row: rows[i]})
				mu.Unlock()
			}
			return nil
		})
	}
	err := g.Wait()
	metrics.ObserveCalculation(metrics.KindSweep, start, err)
	if err != nil {
		s.logger.Warn("sweep aborted: %v", err)
		return nil, err
	}

	s.logger.Info("sweep completed: %d plans", len(rows))
	return &SweepResult{Rows: rows}, nil
}

func sweepRow(kind plan.ImprovementKind, improvement float64, result *plan.PlanResult) SweepRow {
	row := SweepRow{
		Improvement:         improvement,
		ImprovementType:     kind,
		AbsoluteImprovement: result.AbsoluteImprovement,
		ExpectedNH1:         result.ExpectedNH1,
		ExpectedNHalfEffect: result.ExpectedNHalfEffect,
		EfficiencyGain:      result.EfficiencyGain,
		ExpectedWeeksH1:     result.ExpectedWeeksH1,
	}
	for _, week := range result.WeeklyPoints {
		if week.Decision.IsSignificant() {
			row.FirstSignificant = week.Week
			break
		}
	}
	return row
}
