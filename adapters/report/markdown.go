// Package report renders plans for people: markdown and HTML documents for
// sharing, and styled tables for the terminal.
package report

import (
	"bytes"
	"fmt"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"teamtools/domain/plan"
)

// Markdown renders a plan, and its consistency check when given, as a markdown document
func Markdown(r *plan.PlanResult, consistency *plan.ConsistencyReport) []byte {
	var b bytes.Buffer

	b.WriteString("# mSPRT Test Plan\n\n")
	if !r.PlanID.IsEmpty() {
		fmt.Fprintf(&b, "Plan `%s`\n\n", r.PlanID)
	}

	b.WriteString("## Parameters\n\n")
	b.WriteString("| Parameter | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Baseline mean | %.4g |\n", r.BaselineMean)
	fmt.Fprintf(&b, "| Expected test mean | %.4g |\n", r.TestMean)
	fmt.Fprintf(&b, "| Improvement | %.4g (%.2f%%) |\n", r.AbsoluteImprovement, r.RelativeImprovement)
	fmt.Fprintf(&b, "| Standard deviation | %.4g (original %.4g) |\n", r.Dispersion, r.OriginalDispersion)
	fmt.Fprintf(&b, "| Method | %s |\n", r.DispersionMethod)
	fmt.Fprintf(&b, "| Effect size | %.4f (calibrated %.4f) |\n", r.EffectSize, r.CalibratedEffectSize)
	fmt.Fprintf(&b, "| Alpha / power | %.3g / %.3g |\n", r.Alpha, r.Power)
	fmt.Fprintf(&b, "| Thresholds A / B | %.4g / %.4g |\n", r.A, r.B)
	fmt.Fprintf(&b, "| Sample size bounds | %d to %d per group |\n\n", r.MinN, r.MaxN)

	b.WriteString("## Expected sample sizes\n\n")
	fmt.Fprintf(&b, "- Under H1: **%.0f** per group\n", r.ExpectedNH1)
	fmt.Fprintf(&b, "- Under H0: %.0f per group\n", r.ExpectedNH0)
	fmt.Fprintf(&b, "- At half the expected effect: %.0f per group\n", r.ExpectedNHalfEffect)
	fmt.Fprintf(&b, "- Efficiency gain over the maximum: %.1f%%\n", r.EfficiencyGain)
	if r.MonitoringMode == plan.MonitoringWeekly {
		fmt.Fprintf(&b, "- Expected duration: %.1f weeks at %d visitors per group per week\n", r.ExpectedWeeksH1, r.WeeklyVisitors)
	}
	b.WriteString("\n")

	if r.MonitoringMode == plan.MonitoringWeekly {
		b.WriteString("## Weekly monitoring\n\n")
		b.WriteString("| Week | N | Boundary | CI | Decision |\n|---:|---:|---:|---|---|\n")
		for _, w := range r.WeeklyPoints {
			fmt.Fprintf(&b, "| %d | %d | %.4f | [%.4f, %.4f] | %s |\n",
				w.Week, w.N, w.BoundaryUpper, w.CILower, w.CIUpper, w.Decision.Label())
		}
	} else {
		b.WriteString("## Monitoring checkpoints\n\n")
		b.WriteString("| N | SE | Boundary | CI | Relative CI |\n|---:|---:|---:|---|---|\n")
		for _, p := range r.MonitoringPoints {
			fmt.Fprintf(&b, "| %d | %.4f | ±%.4f | [%.4f, %.4f] | [%.2f%%, %.2f%%] |\n",
				p.N, p.StandardError, p.BoundaryUpper, p.CILower, p.CIUpper, p.RelCILower, p.RelCIUpper)
		}
	}

	if consistency != nil {
		b.WriteString("\n## Consistency\n\n")
		status := "consistent"
		if !consistency.Consistent {
			status = "**inconsistent**"
		}
		fmt.Fprintf(&b, "Plan is %s. %s\n", status, consistency.Reason)
	}
	return b.Bytes()
}

// HTML renders the markdown report as a standalone HTML page
func HTML(r *plan.PlanResult, consistency *plan.ConsistencyReport) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "mSPRT Test Plan",
	})
	return markdown.ToHTML(Markdown(r, consistency), p, renderer)
}
