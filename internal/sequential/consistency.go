package sequential

import (
	"fmt"
	"math"

	"teamtools/domain/plan"
)

// ConsistencyTolerance is the allowed gap, in weeks, between the first week the
// weekly table flags significance and the expected-sample-size milestone
const ConsistencyTolerance = 2.0

// CheckConsistency verifies that a plan's weekly table agrees with its expected
// timeline. Plans without a weekly table, or without any significant week, are
// consistent by vacuity. It is a diagnostic and is not used by BuildPlan.
func CheckConsistency(result *plan.PlanResult) plan.ConsistencyReport {
	report := plan.ConsistencyReport{Consistent: true, Tolerance: ConsistencyTolerance}

	if result == nil || result.WeeklyVisitors <= 0 || len(result.WeeklyPoints) == 0 {
		report.Reason = "No weekly monitoring data to validate"
		return report
	}

	firstWeek := 0
	for _, point := range result.WeeklyPoints {
		if point.Decision.IsSignificant() {
			firstWeek = point.Week
			break
		}
	}
	if firstWeek == 0 {
		report.Reason = "No significant result found in monitoring plan"
		return report
	}

	expectedWeeks := result.ExpectedNH1 / float64(result.WeeklyVisitors)
	difference := math.Abs(float64(firstWeek) - expectedWeeks)

	report.Checked = true
	report.Consistent = difference <= ConsistencyTolerance
	report.ExpectedWeeks = expectedWeeks
	report.FirstSignificantWeek = firstWeek
	report.Difference = difference
	report.Reason = fmt.Sprintf("Expected: %.1fw, Actual: %dw, Diff: %.1fw", expectedWeeks, firstWeek, difference)
	return report
}
