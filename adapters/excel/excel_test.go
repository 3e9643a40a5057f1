package excel

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"teamtools/domain/plan"
	"teamtools/internal/sequential"
)

func weeklyPlan(t *testing.T) *plan.PlanResult {
	t.Helper()
	result, err := sequential.BuildPlan(plan.TestParameters{
		BaselineMean:   100,
		DispersionMode: plan.DispersionUnknown,
		Improvement:    plan.Relative(5),
		Alpha:          0.05,
		Beta:           0.2,
		MinN:           100,
		MaxN:           100000,
		WeeklyVisitors: 1000,
		MaxWeeks:       8,
	})
	require.NoError(t, err)
	return result
}

func TestBuildWorkbook_Weekly(t *testing.T) {
	f, err := BuildWorkbook(weeklyPlan(t))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, monitoringSheet}, f.GetSheetList())

	mode, err := f.GetCellValue(summarySheet, "B26")
	require.NoError(t, err)
	assert.Equal(t, "weekly", mode)

	rows, err := f.GetRows(monitoringSheet)
	require.NoError(t, err)
	require.Len(t, rows, 9)
	assert.Equal(t, "Week", rows[0][0])
	assert.Equal(t, "Keep Testing", rows[1][8])
	assert.Equal(t, "Significant Improvement", rows[2][8])
	assert.Equal(t, "2000", rows[2][1])
}

func TestWritePlan_Grid(t *testing.T) {
	std := 20.0
	result, err := sequential.BuildPlan(plan.TestParameters{
		BaselineMean:       100,
		DispersionMode:     plan.DispersionKnown,
		BaselineDispersion: &std,
		Improvement:        plan.Relative(5),
		Alpha:              0.05,
		Beta:               0.2,
		MinN:               100,
		MaxN:               1000,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePlan(result, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(monitoringSheet)
	require.NoError(t, err)
	require.Len(t, rows, 9)
	assert.Equal(t, "N per group", rows[0][0])
	assert.Equal(t, "1000", rows[8][0])
}

func TestBuildWorkbook_NilPlan(t *testing.T) {
	_, err := BuildWorkbook(nil)
	assert.Error(t, err)
}

func TestDataReader_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte("day,revenue\nmon,10\ntue, 12 \nwed,\nthu,\"1,400\"\n"), 0o644))

	table, err := NewDataReader(path).ReadData()
	require.NoError(t, err)
	assert.Equal(t, []string{"day", "revenue"}, table.Headers)

	values, err := NumericColumn(table, "revenue")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 12, 1400}, values)

	_, err = NumericColumn(table, "orders")
	assert.Error(t, err)
	_, err = NumericColumn(table, "day")
	assert.Error(t, err)
}

func TestDataReader_XLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	require.NoError(t, SavePlan(weeklyPlan(t), path))

	table, err := NewDataReader(path).WithSheet(monitoringSheet).ReadData()
	require.NoError(t, err)
	require.Len(t, table.Rows, 8)

	ns, err := NumericColumn(table, "N per group")
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, 2000, 3000, 4000, 5000, 6000, 7000, 8000}, ns)
}

func TestDataReader_MissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "absent.xlsx")).ReadData()
	assert.Error(t, err)
}
