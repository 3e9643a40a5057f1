package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"teamtools/app"
	"teamtools/internal"
	"teamtools/internal/config"
	"teamtools/internal/profiling"
	"teamtools/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, ok := internal.ParseLogLevel(appConfig.Log.Level)
	if !ok {
		log.Printf("Unknown LOG_LEVEL %q, using INFO", appConfig.Log.Level)
		level = internal.LogLevelInfo
	}
	logger := internal.NewLogger(level)
	internal.DefaultLogger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appConfig.Profiling.Enabled {
		go func() {
			logger.Info("view profiles: go tool pprof -http=:8081 http://localhost:%s/debug/pprof/profile?seconds=30", appConfig.Profiling.Port)
			if err := profiling.Serve(ctx, ":"+appConfig.Profiling.Port, logger); err != nil {
				logger.Error("profiling server failed: %v", err)
			}
		}()
	}

	plans := app.NewPlanService(appConfig.Planner, logger)
	sweeps := app.NewSweepService(plans, appConfig.Planner.SweepConcurrency, logger)
	server := ui.NewServer(appConfig.Server, plans, sweeps, logger)

	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
