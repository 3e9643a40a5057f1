package sequential

import (
	"fmt"
	"math"
	"sort"

	"teamtools/domain/core"
	"teamtools/domain/plan"
)

// clearlyDetectableMargin separates "clearly" from "just" detectable effects
const clearlyDetectableMargin = 1.1

// Monitor holds the plan-level quantities that every checkpoint is evaluated
// against. Dispersion is the variance-inflated value used for the milestones.
type Monitor struct {
	BaselineMean        float64
	Dispersion          float64
	AbsoluteImprovement float64
	Alpha               float64
	UseTTest            bool
}

// PointAt evaluates the boundary and the implied confidence interval around the
// expected improvement at n observations per group
func (m Monitor) PointAt(n int) (plan.BoundaryPoint, error) {
	boundary, err := BoundaryAt(float64(n), m.Dispersion, m.Alpha, m.UseTTest)
	if err != nil {
		return plan.BoundaryPoint{}, err
	}

	margin := math.Abs(boundary)
	ciLower := m.AbsoluteImprovement - margin
	ciUpper := m.AbsoluteImprovement + margin

	return plan.BoundaryPoint{
		N:             n,
		StandardError: StandardError(float64(n), m.Dispersion),
		BoundaryUpper: boundary,
		BoundaryLower: -boundary,
		CILower:       ciLower,
		CIUpper:       ciUpper,
		RelCILower:    ciLower / m.BaselineMean * 100,
		RelCIUpper:    ciUpper / m.BaselineMean * 100,
	}, nil
}

// DetermineWeekStatus compares the expected improvement with the boundary after
// week weeks of weeklyVisitors per group. It goes through the same BoundaryAt
// call as the expected-sample-size milestones.
func (m Monitor) DetermineWeekStatus(week, weeklyVisitors int) (plan.WeekStatus, error) {
	if week <= 0 || weeklyVisitors <= 0 {
		return plan.WeekStatus{}, core.ErrNonPositiveSampleSize
	}

	point, err := m.PointAt(weeklyVisitors * week)
	if err != nil {
		return plan.WeekStatus{}, err
	}

	decision, explanation := m.decide(point.BoundaryUpper)
	return plan.WeekStatus{
		BoundaryPoint: point,
		Week:          week,
		Decision:      decision,
		Explanation:   explanation,
	}, nil
}

func (m Monitor) decide(boundary float64) (plan.Decision, string) {
	effect := m.AbsoluteImprovement
	magnitude := math.Abs(effect)

	if magnitude >= boundary {
		clearly := magnitude > boundary*clearlyDetectableMargin
		if effect > 0 {
			if clearly {
				return plan.SignificantImprovement, fmt.Sprintf("The %.3f improvement is clearly detectable. You can confidently implement this change.", effect)
			}
			return plan.SignificantImprovement, fmt.Sprintf("The %.3f improvement is just detectable. This is the minimum reliable improvement we can confirm.", effect)
		}
		if effect < 0 {
			if clearly {
				return plan.SignificantDecline, fmt.Sprintf("The %.3f decline is clearly detectable. You should keep the current version.", magnitude)
			}
			return plan.SignificantDecline, fmt.Sprintf("The %.3f decline is just detectable. This is the minimum reliable decline we can confirm.", magnitude)
		}
	}

	minDetectable := boundary / m.BaselineMean * 100
	expected := magnitude / m.BaselineMean * 100
	return plan.KeepTesting, fmt.Sprintf("Can detect effects ≥%.1f%%, but expecting %.1f%%. Need more data to detect smaller effects.", minDetectable, expected)
}

// WeeklyMonitoringTable evaluates every week from 1 to maxWeeks
func (m Monitor) WeeklyMonitoringTable(weeklyVisitors, maxWeeks int) ([]plan.WeekStatus, error) {
	weeks := make([]plan.WeekStatus, 0, maxWeeks)
	for week := 1; week <= maxWeeks; week++ {
		status, err := m.DetermineWeekStatus(week, weeklyVisitors)
		if err != nil {
			return nil, fmt.Errorf("week %d: %w", week, err)
		}
		weeks = append(weeks, status)
	}
	return weeks, nil
}

// GridMonitoringTable evaluates the boundary at GridCheckpoints(minN, maxN).
// It is a sensitivity view and carries no decisions.
func (m Monitor) GridMonitoringTable(minN, maxN int) ([]plan.BoundaryPoint, error) {
	checkpoints := GridCheckpoints(minN, maxN)
	points := make([]plan.BoundaryPoint, 0, len(checkpoints))
	for _, n := range checkpoints {
		point, err := m.PointAt(n)
		if err != nil {
			return nil, fmt.Errorf("checkpoint n=%d: %w", n, err)
		}
		points = append(points, point)
	}
	return points, nil
}

// GridCheckpoints returns the ascending, de-duplicated sample sizes in
// [minN, maxN] drawn from multiples of minN and fractions of maxN
func GridCheckpoints(minN, maxN int) []int {
	lo, hi := float64(minN), float64(maxN)
	candidates := []int{
		minN,
		int(lo * 1.5),
		int(lo * 2),
		int(lo * 3),
		int(lo * 5),
		int(hi * 0.25),
		int(hi * 0.5),
		int(hi * 0.75),
		maxN,
	}

	seen := make(map[int]bool, len(candidates))
	checkpoints := make([]int, 0, len(candidates))
	for _, n := range candidates {
		if n < minN || n > maxN || seen[n] {
			continue
		}
		seen[n] = true
		checkpoints = append(checkpoints, n)
	}
	sort.Ints(checkpoints)
	return checkpoints
}
