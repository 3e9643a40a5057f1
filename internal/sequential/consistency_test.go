package sequential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamtools/domain/plan"
)

func TestCheckConsistency_WeeklyPlan(t *testing.T) {
	result, err := BuildPlan(plan.TestParameters{
		BaselineMean:   100,
		DispersionMode: plan.DispersionUnknown,
		Improvement:    plan.Relative(5),
		Alpha:          0.05,
		Beta:           0.2,
		MinN:           100,
		MaxN:           100000,
		WeeklyVisitors: 1000,
		MaxWeeks:       50,
	})
	require.NoError(t, err)

	report := CheckConsistency(result)
	assert.True(t, report.Checked)
	assert.True(t, report.Consistent)
	assert.Equal(t, 2, report.FirstSignificantWeek)
	assert.InDelta(t, 1.1529, report.ExpectedWeeks, 1e-4)
	assert.InDelta(t, 0.847, report.Difference, 1e-3)
	assert.Equal(t, ConsistencyTolerance, report.Tolerance)
	assert.Equal(t, "Expected: 1.2w, Actual: 2w, Diff: 0.8w", report.Reason)
}

func TestCheckConsistency_DeclineCountsAsSignificant(t *testing.T) {
	result, err := BuildPlan(plan.TestParameters{
		BaselineMean:   100,
		DispersionMode: plan.DispersionUnknown,
		Improvement:    plan.Relative(-5),
		Alpha:          0.05,
		Beta:           0.2,
		MinN:           100,
		MaxN:           100000,
		WeeklyVisitors: 1000,
		MaxWeeks:       50,
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(result.WeeklyPoints), 2)
	assert.Equal(t, plan.KeepTesting, result.WeeklyPoints[0].Decision)
	assert.Equal(t, plan.SignificantDecline, result.WeeklyPoints[1].Decision)

	report := CheckConsistency(result)
	assert.True(t, report.Checked)
	assert.True(t, report.Consistent)
	assert.Equal(t, 2, report.FirstSignificantWeek)
	assert.InDelta(t, 1.1529, report.ExpectedWeeks, 1e-4)
	assert.Equal(t, "Expected: 1.2w, Actual: 2w, Diff: 0.8w", report.Reason)
}

func TestCheckConsistency_Vacuous(t *testing.T) {
	t.Run("nil plan", func(t *testing.T) {
		report := CheckConsistency(nil)
		assert.True(t, report.Consistent)
		assert.False(t, report.Checked)
	})

	t.Run("grid plan", func(t *testing.T) {
		result, err := BuildPlan(knownParams())
		require.NoError(t, err)

		report := CheckConsistency(result)
		assert.True(t, report.Consistent)
		assert.False(t, report.Checked)
		assert.Equal(t, "No weekly monitoring data to validate", report.Reason)
	})

	t.Run("never significant", func(t *testing.T) {
		result := &plan.PlanResult{
			ExpectedNH1:    5000,
			WeeklyVisitors: 100,
			WeeklyPoints: []plan.WeekStatus{
				{Week: 1, Decision: plan.KeepTesting},
				{Week: 2, Decision: plan.KeepTesting},
			},
		}
		report := CheckConsistency(result)
		assert.True(t, report.Consistent)
		assert.False(t, report.Checked)
		assert.Equal(t, "No significant result found in monitoring plan", report.Reason)
	})
}

func TestCheckConsistency_Disagreement(t *testing.T) {
	result := &plan.PlanResult{
		ExpectedNH1:    1000,
		WeeklyVisitors: 1000,
		WeeklyPoints: []plan.WeekStatus{
			{Week: 1, Decision: plan.KeepTesting},
			{Week: 2, Decision: plan.KeepTesting},
			{Week: 3, Decision: plan.KeepTesting},
			{Week: 4, Decision: plan.SignificantDecline},
		},
	}
	report := CheckConsistency(result)
	assert.True(t, report.Checked)
	assert.False(t, report.Consistent)
	assert.Equal(t, 4, report.FirstSignificantWeek)
	assert.InDelta(t, 3.0, report.Difference, 1e-12)
}
