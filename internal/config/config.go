package config

import (
	"fmt"
	"os"
	"path/filepath"

	"demandcast/internal/pipeline"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string   `envconfig:"DATA_PATH"`
	LogDir              string   `envconfig:"LOGS_FOLDER"`
	ReportDir           string   `envconfig:"REPORT_DIR"`
	EnableMermaidCharts bool     `envconfig:"ENABLE_MERMAID_CHARTS" default:"false"`
	Defaults            Defaults `envconfig:"DEFAULT"`
}

// Defaults are the run parameters applied when a caller leaves them unset.
type Defaults struct {
	Horizon         int    `envconfig:"HORIZON" default:"14"`
	SeasonLength    int    `envconfig:"SEASON_LENGTH" default:"7"`
	Holdout         int    `envconfig:"HOLDOUT" default:"14"`
	MissingStrategy string `envconfig:"MISSING_STRATEGY" default:"interpolate"`
	Model           string `envconfig:"MODEL" default:"auto"`
	MetricLabel     string `envconfig:"METRIC_LABEL" default:"units"`
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Executable directory first, so an MCP host launching the binary picks up its .env
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// 3. Resolve paths
	if cfg.DataPath == "" {
		if exeDir != "" {
			cfg.DataPath = exeDir
		} else {
			cfg.DataPath = "."
		}
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataPath, "logs")
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = filepath.Join(cfg.DataPath, "reports")
	}

	for _, dir := range []string{cfg.LogDir, cfg.ReportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("Failed to create directory")
		}
	}

	if err := cfg.RunParams().Validate(); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_* settings: %w", err)
	}

	return &cfg, nil
}

// RunParams returns the configured defaults as run parameters.
func (c *AppConfig) RunParams() pipeline.Params {
	p := pipeline.DefaultParams()
	d := c.Defaults
	if d.Horizon != 0 {
		p.Horizon = d.Horizon
	}
	if d.SeasonLength != 0 {
		p.SeasonLength = d.SeasonLength
	}
	if d.Holdout != 0 {
		p.Holdout = d.Holdout
	}
	if d.MissingStrategy != "" {
		p.MissingStrategy = d.MissingStrategy
	}
	if d.Model != "" {
		p.Model = d.Model
	}
	if d.MetricLabel != "" {
		p.MetricLabel = d.MetricLabel
	}
	return p
}

// ResolvePath returns path unchanged when absolute and joined to DataPath otherwise.
func (c *AppConfig) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataPath, path)
}
