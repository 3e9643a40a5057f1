package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"teamtools/domain/plan"
)

const (
	summarySheet    = "Summary"
	monitoringSheet = "Monitoring"
)

var (
	weeklyHeaders = []interface{}{"Week", "N per group", "SE", "Boundary", "CI lower", "CI upper", "Rel CI lower %", "Rel CI upper %", "Decision", "Explanation"}
	gridHeaders   = []interface{}{"N per group", "SE", "Boundary upper", "Boundary lower", "CI lower", "CI upper", "Rel CI lower %", "Rel CI upper %"}
)

// WritePlan renders a plan as an .xlsx workbook with a Summary sheet and a
// Monitoring sheet holding the weekly or grid table
func WritePlan(result *plan.PlanResult, w io.Writer) error {
	f, err := BuildWorkbook(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SavePlan writes the workbook to path
func SavePlan(result *plan.PlanResult, path string) error {
	f, err := BuildWorkbook(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// BuildWorkbook lays out the plan in a new in-memory workbook. Callers close it.
func BuildWorkbook(result *plan.PlanResult) (*excelize.File, error) {
	if result == nil {
		return nil, fmt.Errorf("no plan to export")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if _, err := f.NewSheet(monitoringSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create monitoring sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummary(f, result, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeMonitoring(f, result, bold); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSummary(f *excelize.File, r *plan.PlanResult, headerStyle int) error {
	rows := [][]interface{}{
		{"Parameter", "Value"},
		{"Plan ID", r.PlanID.String()},
		{"Baseline mean", r.BaselineMean},
		{"Test mean", r.TestMean},
		{"Absolute improvement", r.AbsoluteImprovement},
		{"Relative improvement %", r.RelativeImprovement},
		{"Standard deviation (adjusted)", r.Dispersion},
		{"Standard deviation (original)", r.OriginalDispersion},
		{"Standard deviation method", r.DispersionMethod},
		{"Effect size", r.EffectSize},
		{"Calibrated effect size", r.CalibratedEffectSize},
		{"Test", testName(r.UseTTest)},
		{"Alpha", r.Alpha},
		{"Beta", r.Beta},
		{"Power", r.Power},
		{"Upper threshold A", r.A},
		{"Lower threshold B", r.B},
		{"Expected N (H0)", r.ExpectedNH0},
		{"Expected N (H1)", r.ExpectedNH1},
		{"Expected N (half effect)", r.ExpectedNHalfEffect},
		{"Min N", r.MinN},
		{"Max N", r.MaxN},
		{"Efficiency gain %", r.EfficiencyGain},
		{"Variance inflation factor", r.VarianceInflationFactor},
		{"Mixing variance factor", r.MixingVarianceFactor},
		{"Monitoring mode", string(r.MonitoringMode)},
	}
	if r.MonitoringMode == plan.MonitoringWeekly {
		rows = append(rows,
			[]interface{}{"Weekly visitors per group", r.WeeklyVisitors},
			[]interface{}{"Expected weeks (H1)", r.ExpectedWeeksH1},
		)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "A", 32)
}

func writeMonitoring(f *excelize.File, r *plan.PlanResult, headerStyle int) error {
	headers := gridHeaders
	var rows [][]interface{}
	if r.MonitoringMode == plan.MonitoringWeekly {
		headers = weeklyHeaders
		for _, w := range r.WeeklyPoints {
			rows = append(rows, []interface{}{
				w.Week, w.N, w.StandardError, w.BoundaryUpper, w.CILower, w.CIUpper,
				w.RelCILower, w.RelCIUpper, w.Decision.Label(), w.Explanation,
			})
		}
	} else {
		for _, p := range r.MonitoringPoints {
			rows = append(rows, []interface{}{
				p.N, p.StandardError, p.BoundaryUpper, p.BoundaryLower, p.CILower, p.CIUpper,
				p.RelCILower, p.RelCIUpper,
			})
		}
	}

	if err := f.SetSheetRow(monitoringSheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write monitoring header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(monitoringSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(monitoringSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write monitoring row %d: %w", i+2, err)
		}
	}
	return nil
}

func testName(useTTest bool) string {
	if useTTest {
		return "Welch's t-test"
	}
	return "z-test"
}
