package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"teamtools/app"
)

const (
	formatTable    = "table"
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatHTML     = "html"
)

// resolveFormat picks table output for terminals and JSON for pipes unless a format was given
func resolveFormat(requested string, out io.Writer) string {
	if requested != "" {
		return requested
	}
	if f, ok := out.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return formatTable
	}
	return formatJSON
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var sweepCell = lipgloss.NewStyle().Padding(0, 1)

func sweepTable(result *app.SweepResult) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Improvement", "Absolute", "Expected N (H1)", "Half-effect N", "Efficiency", "Weeks (H1)").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return sweepCell.Bold(true)
			}
			return sweepCell
		})
	for _, row := range result.Rows {
		weeks := "-"
		if row.ExpectedWeeksH1 > 0 {
			weeks = fmt.Sprintf("%.1f", row.ExpectedWeeksH1)
		}
		t.Row(
			fmt.Sprintf("%g %s", row.Improvement, row.ImprovementType),
			fmt.Sprintf("%.4g", row.AbsoluteImprovement),
			fmt.Sprintf("%.0f", row.ExpectedNH1),
			fmt.Sprintf("%.0f", row.ExpectedNHalfEffect),
			fmt.Sprintf("%.1f%%", row.EfficiencyGain),
			weeks,
		)
	}
	return t.String()
}
