package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/pldash/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.FEIPrecision, convey.ShouldEqual, 3)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"*"})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PLDASH_ADDR", ":8080")
			_ = os.Setenv("PLDASH_LOG_FORMAT", "json")
			_ = os.Setenv("PLDASH_FEI_PRECISION", "2")
			_ = os.Setenv("PLDASH_LIVE_CHECK_ENABLED", "false")
			_ = os.Setenv("PLDASH_LIVE_CHECK_TIMEOUT_MS", "2500")
			_ = os.Setenv("PLDASH_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.FEIPrecision, convey.ShouldEqual, 2)
				convey.So(cfg.LiveCheckEnabled, convey.ShouldBeFalse)
				convey.So(cfg.LiveCheckTimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
dataset_path: "/srv/pl/dataset.yaml"
fei_risk_scale: 400
fei_growth_floor: 0.25
live_check_schedule: "@every 1h"
cors_allowed_origins:
  - https://dash.example
`
			tmpFile := createTempFile("config", yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLDASH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DatasetPath, convey.ShouldEqual, "/srv/pl/dataset.yaml")
				convey.So(cfg.FEIRiskScale, convey.ShouldEqual, 400)
				convey.So(cfg.FEIGrowthFloor, convey.ShouldEqual, 0.25)
				convey.So(cfg.FEIRiskFloor, convey.ShouldEqual, 0.5) // From defaults
				convey.So(cfg.LiveCheckSchedule, convey.ShouldEqual, "@every 1h")
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://dash.example"})
				convey.So(cfg.FEIPrecision, convey.ShouldEqual, 3) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempFile("config", "addr: \":9090\"\nfei_precision: 4\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLDASH_CONFIG", tmpFile)
			_ = os.Setenv("PLDASH_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")  // Overridden by env
				convey.So(cfg.FEIPrecision, convey.ShouldEqual, 4) // From file
			})
		})

		convey.Convey("When a dotenv file is given", func() {
			envFile := createTempFile("env", "PLDASH_LOG_LEVEL=debug\nPLDASH_MCP_PATH=/tools\n")
			defer func() { _ = os.Remove(envFile) }()

			_ = os.Setenv("PLDASH_ENV_FILE", envFile)
			_ = os.Setenv("PLDASH_MCP_PATH", "/already-set")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then its values apply without overriding the environment", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.MCPPath, convey.ShouldEqual, "/already-set")
			})
		})

		convey.Convey("When the dotenv file does not exist", func() {
			_ = os.Setenv("PLDASH_ENV_FILE", "/non/existent/.env")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempFile("config", `invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLDASH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PLDASH_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with YAML file containing empty addr", func() {
			tmpFile := createTempFile("config", "addr: \"\"\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PLDASH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return validation error for empty addr", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PLDASH_FEI_PRECISION", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the precision is out of range", func() {
			_ = os.Setenv("PLDASH_FEI_PRECISION", "9")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PLDASH_CONFIG",
		"PLDASH_ENV_FILE",
		"PLDASH_ADDR",
		"PLDASH_LOG_LEVEL",
		"PLDASH_LOG_FORMAT",
		"PLDASH_FEI_PRECISION",
		"PLDASH_LIVE_CHECK_ENABLED",
		"PLDASH_LIVE_CHECK_TIMEOUT_MS",
		"PLDASH_CORS_ALLOWED_ORIGINS",
		"PLDASH_MCP_PATH",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempFile(kind, content string) string {
	tmpFile, err := os.CreateTemp("", "pldash-"+kind+"-*")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
