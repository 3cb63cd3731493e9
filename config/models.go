package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds application configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	ConnectWise  ConnectWiseConfig  `mapstructure:"connectwise"`
	Budget       BudgetConfig       `mapstructure:"budget"`
	Retry        RetryConfig        `mapstructure:"retry"`
	Run          RunConfig          `mapstructure:"run"`
	Analyzer     AnalyzerConfig     `mapstructure:"analyzer"`
	Snapshot     SnapshotConfig     `mapstructure:"snapshot"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
}

// Validate ensures required fields are present and budgets are sane.
// A failure here is fatal at startup; no run begins.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.ConnectWise.BaseURL == "" {
		return errors.New("connectwise.base_url is required")
	}
	if c.ConnectWise.Company == "" || c.ConnectWise.PublicKey == "" || c.ConnectWise.PrivateKey == "" {
		return errors.New("connectwise credentials are required")
	}
	if c.ConnectWise.ClientID == "" {
		return errors.New("connectwise.client_id is required")
	}
	if c.ConnectWise.PageSize <= 0 {
		return errors.New("connectwise.page_size must be positive")
	}
	if c.Budget.MaxInFlight <= 0 || c.Budget.RequestsPerWindow <= 0 || c.Budget.Window <= 0 {
		return errors.New("budget limits must be positive")
	}
	if c.Retry.MaxAttempts <= 0 || c.Retry.InitialDelay <= 0 || c.Retry.MaxDelay <= 0 {
		return errors.New("retry parameters must be positive")
	}
	if c.Snapshot.Dir == "" {
		return errors.New("snapshot.dir is required")
	}
	if c.Orchestrator.Enabled && c.Orchestrator.URL == "" {
		return errors.New("orchestrator.url is required when orchestrator is enabled")
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// ConnectWiseConfig describes the platform endpoint and credential set.
type ConnectWiseConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Company           string        `mapstructure:"company"`
	PublicKey         string        `mapstructure:"public_key"`
	PrivateKey        string        `mapstructure:"private_key"`
	ClientID          string        `mapstructure:"client_id"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	PageSize          int           `mapstructure:"page_size"`
	MaxRecords        int           `mapstructure:"max_records"`
	ProjectConditions string        `mapstructure:"project_conditions"`
}

// BudgetConfig bounds concurrent in-flight requests and the
// requests-per-window ceiling.
type BudgetConfig struct {
	MaxInFlight       int           `mapstructure:"max_in_flight"`
	RequestsPerWindow int           `mapstructure:"requests_per_window"`
	Window            time.Duration `mapstructure:"window"`
}

// RetryConfig tunes the retry/backoff policy.
type RetryConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
}

// RunConfig bounds one analysis run.
type RunConfig struct {
	Deadline time.Duration `mapstructure:"deadline"`
	OnStart  bool          `mapstructure:"on_start"`
}

// AnalyzerConfig tunes the risk/health analyzer. A zero recency window
// means any time entry within the run's fetched horizon counts as
// recent activity.
type AnalyzerConfig struct {
	StalledRecencyWindow time.Duration `mapstructure:"stalled_recency_window"`
}

// SnapshotConfig locates the snapshot output directory.
type SnapshotConfig struct {
	Dir string `mapstructure:"dir"`
}

// OrchestratorConfig points at the narrative AI service.
type OrchestratorConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}
