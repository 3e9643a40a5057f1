package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"teamtools/domain/plan"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#20B9B4"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2C4A54"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2CD7C7"))
	declineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
)

// Terminal renders a plan summary and its monitoring table for a terminal
func Terminal(r *plan.PlanResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mSPRT Test Plan"))
	b.WriteString("\n")
	for _, kv := range [][2]string{
		{"Std deviation", fmt.Sprintf("%.4g  %s", r.Dispersion, r.DispersionMethod)},
		{"Improvement", fmt.Sprintf("%.4g (%.2f%%)", r.AbsoluteImprovement, r.RelativeImprovement)},
		{"Effect size", fmt.Sprintf("%.4f", r.EffectSize)},
		{"Expected N (H1)", fmt.Sprintf("%.0f per group", r.ExpectedNH1)},
		{"Half-effect N", fmt.Sprintf("%.0f per group", r.ExpectedNHalfEffect)},
		{"Efficiency gain", fmt.Sprintf("%.1f%%", r.EfficiencyGain)},
	} {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", kv[0])), kv[1])
	}
	b.WriteString("\n")
	b.WriteString(MonitoringTable(r))
	b.WriteString("\n")
	return b.String()
}

// MonitoringTable renders whichever monitoring table the plan carries
func MonitoringTable(r *plan.PlanResult) string {
	t := table.New().Border(lipgloss.NormalBorder())

	if r.MonitoringMode == plan.MonitoringWeekly {
		t = t.Headers("Week", "N", "Boundary", "CI", "Decision")
		for _, w := range r.WeeklyPoints {
			t = t.Row(
				fmt.Sprint(w.Week),
				fmt.Sprint(w.N),
				fmt.Sprintf("%.4f", w.BoundaryUpper),
				fmt.Sprintf("[%.3f, %.3f]", w.CILower, w.CIUpper),
				decisionCell(w.Decision),
			)
		}
		return t.StyleFunc(styleCell).String()
	}

	t = t.Headers("N", "SE", "Boundary", "CI", "Relative CI")
	for _, p := range r.MonitoringPoints {
		t = t.Row(
			fmt.Sprint(p.N),
			fmt.Sprintf("%.4f", p.StandardError),
			fmt.Sprintf("±%.4f", p.BoundaryUpper),
			fmt.Sprintf("[%.3f, %.3f]", p.CILower, p.CIUpper),
			fmt.Sprintf("[%.2f%%, %.2f%%]", p.RelCILower, p.RelCIUpper),
		)
	}
	return t.StyleFunc(styleCell).String()
}

func styleCell(row, _ int) lipgloss.Style {
	if row == table.HeaderRow {
		return headerStyle
	}
	return cellStyle
}

func decisionCell(d plan.Decision) string {
	switch d {
	case plan.SignificantImprovement:
		return successStyle.Render(d.Label())
	case plan.SignificantDecline:
		return declineStyle.Render(d.Label())
	default:
		return d.Label()
	}
}
