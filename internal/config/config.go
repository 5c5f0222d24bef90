// Package config defines service configuration and how it is loaded.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and the environment on top of the defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"time"

	"github.com/okian/pldash/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DatasetPath points to a YAML dataset replacing the built-in figures.
	DatasetPath string `koanf:"dataset_path"`

	// LiveCheckEnabled turns the background live data probe on.
	LiveCheckEnabled bool `koanf:"live_check_enabled"`

	// LiveCheckURL is the fixture feed probed for availability.
	LiveCheckURL string `koanf:"live_check_url"`

	// LiveCheckTimeoutMS bounds a single probe.
	LiveCheckTimeoutMS int `koanf:"live_check_timeout_ms"`

	// LiveCheckSchedule is a cron spec, e.g. "@every 15m".
	LiveCheckSchedule string `koanf:"live_check_schedule"`

	// FEIPrecision is the number of decimals FEI is rounded to.
	FEIPrecision int `koanf:"fei_precision"`

	// FEIRiskScale is the total revenue (£M) at which the risk factor reaches 1.
	FEIRiskScale float64 `koanf:"fei_risk_scale"`

	// FEIGrowthFloor is the lower bound of the FEI growth factor.
	FEIGrowthFloor float64 `koanf:"fei_growth_floor"`

	// FEIRiskFloor is the lower bound of the FEI risk factor.
	FEIRiskFloor float64 `koanf:"fei_risk_floor"`

	// MCPPath mounts the MCP tools endpoint; empty disables it.
	MCPPath string `koanf:"mcp_path"`

	// CORSAllowedOrigins lists origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		LiveCheckEnabled:   true,
		LiveCheckURL:       "https://raw.githubusercontent.com/openfootball/football.json/master/2024-25/en.1.json",
		LiveCheckTimeoutMS: 10_000,
		LiveCheckSchedule:  "@every 15m",
		FEIPrecision:       3,
		FEIRiskScale:       500,
		FEIGrowthFloor:     0.5,
		FEIRiskFloor:       0.5,
		MCPPath:            "/mcp",
		CORSAllowedOrigins: []string{"*"},
	}
}

// LiveCheckTimeout returns LiveCheckTimeoutMS as a duration.
func (c *Config) LiveCheckTimeout() time.Duration {
	return time.Duration(c.LiveCheckTimeoutMS) * time.Millisecond
}

// ScoringOptions maps the FEI keys onto scorer options.
func (c *Config) ScoringOptions() []scoring.Option {
	return []scoring.Option{
		scoring.WithPrecision(c.FEIPrecision),
		scoring.WithRiskScale(c.FEIRiskScale),
		scoring.WithGrowthFloor(c.FEIGrowthFloor),
		scoring.WithRiskFloor(c.FEIRiskFloor),
	}
}
