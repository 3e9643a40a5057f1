package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"teamtools/adapters/excel"
	"teamtools/adapters/report"
	"teamtools/app"
)

// planFlags binds the PlanRequest fields shared by plan and sweep
type planFlags struct {
	req app.PlanRequest
	std float64
}

func (f *planFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.req.BaselineMean, "baseline-mean", 0, "Baseline metric mean")
	fs.StringVar(&f.req.StdKnown, "std-known", "known", "Dispersion mode: known|estimated|unknown")
	fs.Float64Var(&f.std, "baseline-std", 0, "Baseline standard deviation (required when --std-known=known)")
	fs.StringVar(&f.req.ImprovementType, "improvement-type", "relative", "Improvement type: absolute|relative")
	fs.Float64Var(&f.req.ImprovementValue, "improvement", 0, "Expected improvement (percent when relative)")
	fs.Float64Var(&f.req.Alpha, "alpha", 0.05, "Type I error rate")
	fs.Float64Var(&f.req.Beta, "beta", 0.2, "Type II error rate")
	fs.IntVar(&f.req.MinN, "min-n", 100, "Minimum samples per group")
	fs.IntVar(&f.req.MaxN, "max-n", 10000, "Maximum samples per group")
	fs.IntVar(&f.req.WeeklyVisitors, "weekly-visitors", 0, "Visitors per group per week; enables the weekly table")
	fs.IntVar(&f.req.MaxWeeks, "max-weeks", 0, "Weeks in the weekly table")
	fs.Float64Var(&f.req.VarianceInflationFactor, "variance-inflation", 0, "Variance inflation factor (0 uses the configured default)")
	fs.Float64Var(&f.req.MixingVarianceFactor, "mixing-variance", 0, "Mixing variance factor (0 uses the configured default)")
}

func (f *planFlags) request() app.PlanRequest {
	req := f.req
	if f.std > 0 {
		std := f.std
		req.BaselineStd = &std
	}
	return req
}

func newPlanCmd(svc *services) *cobra.Command {
	flags := &planFlags{}
	var format, xlsxPath string
	var check bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build an mSPRT monitoring plan",
		Long: `Build an mSPRT monitoring plan with expected sample sizes and a monitoring table.

Example: teamtools plan --baseline-mean 100 --baseline-std 20 --improvement 5 --weekly-visitors 1000 --max-weeks 12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, consistency, err := svc.plans.PlanWithConsistency(cmd.Context(), flags.request())
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				if err := excel.SavePlan(result, xlsxPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved workbook to %s\n", xlsxPath)
			}

			out := cmd.OutOrStdout()
			switch resolveFormat(format, out) {
			case formatJSON:
				payload := interface{}(result)
				if check {
					payload = map[string]interface{}{"plan": result, "consistency": consistency}
				}
				return writeJSON(out, payload)
			case formatMarkdown:
				if check {
					_, err = out.Write(report.Markdown(result, &consistency))
				} else {
					_, err = out.Write(report.Markdown(result, nil))
				}
				return err
			case formatHTML:
				_, err = out.Write(report.HTML(result, &consistency))
				return err
			default:
				fmt.Fprint(out, report.Terminal(result))
				if check {
					fmt.Fprintf(out, "\nConsistency: %s (%s)\n", consistencyLabel(consistency.Consistent), consistency.Reason)
				}
				return nil
			}
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table|json|markdown|html (default table on a terminal, json otherwise)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the plan to this .xlsx file")
	cmd.Flags().BoolVar(&check, "check", false, "Check the weekly table against the expected timeline")
	_ = cmd.MarkFlagRequired("baseline-mean")
	return cmd
}

func consistencyLabel(ok bool) string {
	if ok {
		return "consistent"
	}
	return "INCONSISTENT"
}

func newSweepCmd(svc *services) *cobra.Command {
	flags := &planFlags{}
	var improvements []float64
	var format string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare expected sample sizes across several improvements",
		Long: `Build one plan per improvement value and summarize the expected sample sizes.

Example: teamtools sweep --baseline-mean 100 --baseline-std 20 --improvements 2,5,10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := svc.sweeps.Sweep(cmd.Context(), app.SweepRequest{
				Base:         flags.request(),
				Improvements: improvements,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if resolveFormat(format, out) == formatJSON {
				return writeJSON(out, result)
			}
			fmt.Fprintln(out, sweepTable(result))
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().Float64SliceVar(&improvements, "improvements", nil, "Comma separated improvement values")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table|json")
	_ = cmd.MarkFlagRequired("baseline-mean")
	_ = cmd.MarkFlagRequired("improvements")
	return cmd
}

func newFixedCmd(svc *services) *cobra.Command {
	var req app.FixedHorizonRequest
	var std float64

	cmd := &cobra.Command{
		Use:   "fixed",
		Short: "Size a classic fixed-horizon test for comparison",
		RunE: func(cmd *cobra.Command, args []string) error {
			if std > 0 {
				req.BaselineStd = &std
			}
			result, err := svc.plans.FixedHorizon(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().Float64Var(&req.BaselineMean, "baseline-mean", 0, "Baseline metric mean")
	cmd.Flags().Float64Var(&std, "baseline-std", 0, "Baseline standard deviation (estimated from the mean when omitted)")
	cmd.Flags().StringVar(&req.ImprovementType, "improvement-type", "relative", "Improvement type: absolute|relative")
	cmd.Flags().Float64Var(&req.ImprovementValue, "improvement", 0, "Expected improvement (percent when relative)")
	cmd.Flags().Float64Var(&req.Power, "power", 0.8, "Statistical power")
	cmd.Flags().Float64Var(&req.Alpha, "alpha", 0.05, "Significance level")
	cmd.Flags().StringVar(&req.TestType, "test-type", "two-sided", "two-sided|one-sided")
	_ = cmd.MarkFlagRequired("baseline-mean")
	return cmd
}
