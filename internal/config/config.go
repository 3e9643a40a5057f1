package config

import (
	"fmt"
	"os"
	"strconv"

	"teamtools/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Planner   PlannerConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// PlannerConfig holds defaults applied to plan requests that omit them, and
// limits on request size
type PlannerConfig struct {
	VarianceInflationFactor float64
	MixingVarianceFactor    float64
	MaxWeeksLimit           int
	SweepConcurrency        int
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Log:       LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
		Planner:   *loadPlannerConfig(),
		Profiling: *loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadPlannerConfig() *PlannerConfig {
	return &PlannerConfig{
		VarianceInflationFactor: getEnvFloatOrDefault("DEFAULT_VARIANCE_INFLATION", 1.5),
		MixingVarianceFactor:    getEnvFloatOrDefault("DEFAULT_MIXING_VARIANCE", 2.0),
		MaxWeeksLimit:           getEnvIntOrDefault("MAX_WEEKS_LIMIT", 520),
		SweepConcurrency:        getEnvIntOrDefault("SWEEP_CONCURRENCY", 4),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE %q is not one of debug, release, test", config.Server.GinMode))
	}
	if config.Planner.VarianceInflationFactor <= 0 {
		return errors.ConfigInvalid("DEFAULT_VARIANCE_INFLATION must be positive")
	}
	if config.Planner.MixingVarianceFactor <= 0 {
		return errors.ConfigInvalid("DEFAULT_MIXING_VARIANCE must be positive")
	}
	if config.Planner.MaxWeeksLimit <= 0 {
		return errors.ConfigInvalid("MAX_WEEKS_LIMIT must be positive")
	}
	if config.Planner.SweepConcurrency <= 0 {
		return errors.ConfigInvalid("SWEEP_CONCURRENCY must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
