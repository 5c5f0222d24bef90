package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by Load.
const (
	EnvPrefix  = "PLDASH_"
	EnvConfig  = EnvPrefix + "CONFIG"
	EnvEnvFile = EnvPrefix + "ENV_FILE"
)

const maxFEIPrecision = 6

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if PLDASH_CONFIG is set
//  3. env (prefix PLDASH_), after loading PLDASH_ENV_FILE or ./.env
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PLDASH_LIVE_CHECK_URL -> live_check_url; list keys are comma separated.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
		switch key {
		case "config", "env_file":
			return "", nil
		case "cors_allowed_origins":
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv exports variables from a dotenv file without overriding the
// process environment. A missing default .env is not an error.
func loadDotEnv() error {
	if path := os.Getenv(EnvEnvFile); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("%w: env file %s: %w", ErrLoadConfig, path, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("%w: .env: %w", ErrLoadConfig, err)
		}
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LiveCheckTimeoutMS <= 0:
		return fmt.Errorf("%w: live_check_timeout_ms must be positive, got %d", ErrInvalidConfig, c.LiveCheckTimeoutMS)
	case c.LiveCheckEnabled && c.LiveCheckSchedule == "":
		return fmt.Errorf("%w: live_check_schedule must be set when the live check is enabled", ErrInvalidConfig)
	case c.FEIPrecision < 0 || c.FEIPrecision > maxFEIPrecision:
		return fmt.Errorf("%w: fei_precision must be within 0..%d, got %d", ErrInvalidConfig, maxFEIPrecision, c.FEIPrecision)
	case c.FEIRiskScale <= 0:
		return fmt.Errorf("%w: fei_risk_scale must be positive, got %g", ErrInvalidConfig, c.FEIRiskScale)
	case c.FEIGrowthFloor <= 0:
		return fmt.Errorf("%w: fei_growth_floor must be positive, got %g", ErrInvalidConfig, c.FEIGrowthFloor)
	case c.FEIRiskFloor <= 0:
		return fmt.Errorf("%w: fei_risk_floor must be positive, got %g", ErrInvalidConfig, c.FEIRiskFloor)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
