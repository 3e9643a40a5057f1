package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"teamtools/adapters/excel"
	"teamtools/internal/dispersion"
	"teamtools/internal/errors"
)

func newDispersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispersion",
		Short: "Estimate a baseline standard deviation",
	}
	cmd.AddCommand(
		newSamplesCmd(),
		newRangeCmd(),
		newQuartilesCmd(),
		newConversionsCmd(),
		newConversionRateCmd(),
		newPrecisionCmd(),
	)
	return cmd
}

func newSamplesCmd() *cobra.Command {
	var file, column, sheet string

	cmd := &cobra.Command{
		Use:   "samples [values...]",
		Short: "Summarize raw observations given as arguments or read from a spreadsheet column",
		Long: `Summarize raw observations given as arguments or read from a spreadsheet column.

Example: teamtools dispersion samples --file history.xlsx --column revenue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := sampleValues(args, file, column, sheet)
			if err != nil {
				return err
			}
			summary, err := dispersion.FromSamples(values)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Read values from an .xlsx or .csv file")
	cmd.Flags().StringVar(&column, "column", "", "Column to read from --file")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to read (default first sheet)")
	return cmd
}

func sampleValues(args []string, file, column, sheet string) ([]float64, error) {
	if file == "" {
		values := make([]float64, 0, len(args))
		for _, arg := range args {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, errors.InvalidInput(fmt.Sprintf("not a number: %q", arg))
			}
			values = append(values, v)
		}
		return values, nil
	}

	if column == "" {
		return nil, errors.InvalidInput("--column is required with --file")
	}
	reader := excel.NewDataReader(file)
	if sheet != "" {
		reader = reader.WithSheet(sheet)
	}
	t, err := reader.ReadData()
	if err != nil {
		return nil, err
	}
	return excel.NumericColumn(t, column)
}

func newRangeCmd() *cobra.Command {
	var method string
	cmd := &cobra.Command{
		Use:   "range <min> <max>",
		Short: "Estimate the standard deviation from a min-max range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			est, err := dispersion.FromRange(v[0], v[1], dispersion.RangeMethod(method))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), est)
		},
	}
	cmd.Flags().StringVar(&method, "method", string(dispersion.RangeRule), "range_rule|six_sigma")
	return cmd
}

func newQuartilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quartiles <q1> <median> <q3>",
		Short: "Estimate the standard deviation from quartiles",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			est, err := dispersion.FromQuartiles(v[0], v[1], v[2])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), est)
		},
	}
}

func newConversionsCmd() *cobra.Command {
	var file, sheet, conversionsColumn, visitorsColumn string
	cmd := &cobra.Command{
		Use:   "conversions",
		Short: "Observed and theoretical conversion-rate dispersion from per-period counts",
		Long: `Observed and theoretical conversion-rate dispersion from per-period counts.

Example: teamtools dispersion conversions --file daily.csv --conversions orders --visitors sessions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := excel.NewDataReader(file)
			if sheet != "" {
				reader = reader.WithSheet(sheet)
			}
			t, err := reader.ReadData()
			if err != nil {
				return err
			}
			conversions, err := excel.NumericColumn(t, conversionsColumn)
			if err != nil {
				return err
			}
			visitors, err := excel.NumericColumn(t, visitorsColumn)
			if err != nil {
				return err
			}
			summary, err := dispersion.FromConversionData(conversions, visitors)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "An .xlsx or .csv file with one row per period")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to read (default first sheet)")
	cmd.Flags().StringVar(&conversionsColumn, "conversions", "conversions", "Conversions column")
	cmd.Flags().StringVar(&visitorsColumn, "visitors", "visitors", "Visitors column")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newConversionRateCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "conversion-rate <rate>",
		Short: "Profile a baseline conversion rate at a traffic level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			profile, err := dispersion.ConversionRate(v[0], n)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), profile)
		},
	}
	cmd.Flags().IntVarP(&n, "sample-size", "n", 1000, "Visitors per group")
	return cmd
}

func newPrecisionCmd() *cobra.Command {
	var confidence float64
	cmd := &cobra.Command{
		Use:   "precision <target>",
		Short: "Observations needed to estimate a standard deviation to a relative precision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			req, err := dispersion.SamplesForPrecision(v[0], confidence)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), req)
		},
	}
	cmd.Flags().Float64Var(&confidence, "confidence", 0.95, "Confidence level")
	return cmd
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("not a number: %q", arg))
		}
		out[i] = v
	}
	return out, nil
}
