package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"teamtools/app"
	"teamtools/internal"
	"teamtools/internal/config"
)

// services are built lazily so --help works without a valid environment
type services struct {
	cfg    *config.Config
	plans  *app.PlanService
	sweeps *app.SweepService
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	svc := &services{}
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "teamtools",
		Short:         "Plan and size A/B tests with mSPRT sequential boundaries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			level := internal.LogLevelWarn
			if verbose {
				level = internal.LogLevelDebug
			}
			logger := internal.NewLoggerWithOutput(level, cmd.ErrOrStderr())

			svc.cfg = cfg
			svc.plans = app.NewPlanService(cfg.Planner, logger)
			svc.sweeps = app.NewSweepService(svc.plans, cfg.Planner.SweepConcurrency, logger)
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log calculation details to stderr")

	rootCmd.AddCommand(
		newPlanCmd(svc),
		newSweepCmd(svc),
		newFixedCmd(svc),
		newDispersionCmd(),
	)
	return rootCmd
}
