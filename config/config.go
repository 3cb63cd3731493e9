// Package config loads application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = "config/.env"

// NewConfig loads configuration from environment using viper with typed defaults and validation.
func NewConfig() (*Config, error) {
	v := viper.New()
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, v := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, v)
			}
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "debug")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("connectwise.request_timeout", 30*time.Second)
	v.SetDefault("connectwise.page_size", 100)
	v.SetDefault("connectwise.max_records", 0)
	v.SetDefault("connectwise.project_conditions", "status/name='In Progress'")

	// Platform allows ~1000 requests/minute; stay under it.
	v.SetDefault("budget.max_in_flight", 8)
	v.SetDefault("budget.requests_per_window", 900)
	v.SetDefault("budget.window", time.Minute)

	v.SetDefault("retry.max_attempts", 4)
	v.SetDefault("retry.initial_delay", 500*time.Millisecond)
	v.SetDefault("retry.max_delay", 15*time.Second)

	v.SetDefault("run.deadline", 5*time.Minute)
	v.SetDefault("run.on_start", false)

	v.SetDefault("analyzer.stalled_recency_window", time.Duration(0))

	v.SetDefault("snapshot.dir", "data/reports")

	v.SetDefault("orchestrator.enabled", false)
	v.SetDefault("orchestrator.timeout", 60*time.Second)
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"logging.level",
		"server.host",
		"server.port",
		"server.shutdown_timeout",
		"connectwise.base_url",
		"connectwise.company",
		"connectwise.public_key",
		"connectwise.private_key",
		"connectwise.client_id",
		"connectwise.request_timeout",
		"connectwise.page_size",
		"connectwise.max_records",
		"connectwise.project_conditions",
		"budget.max_in_flight",
		"budget.requests_per_window",
		"budget.window",
		"retry.max_attempts",
		"retry.initial_delay",
		"retry.max_delay",
		"run.deadline",
		"run.on_start",
		"analyzer.stalled_recency_window",
		"snapshot.dir",
		"orchestrator.enabled",
		"orchestrator.url",
		"orchestrator.timeout",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}
