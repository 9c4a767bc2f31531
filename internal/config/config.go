// Package config loads tokentrace settings from an optional .env file, a
// TOML file and TOKENTRACE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"tokentrace/internal/domain"
)

// Environment variables
const (
	EnvConfig      = "TOKENTRACE_CONFIG"
	EnvDocument    = "TOKENTRACE_DOCUMENT"
	EnvLogLevel    = "TOKENTRACE_LOG_LEVEL"
	EnvHistory     = "TOKENTRACE_HISTORY"
	EnvMetricsAddr = "TOKENTRACE_METRICS_ADDR"
)

const DefaultProgressInterval = 10

// Config holds every tokentrace setting
type Config struct {
	Document         string       `toml:"document"`
	LogLevel         string       `toml:"log_level"`
	LogPretty        bool         `toml:"log_pretty"`
	HistoryPath      string       `toml:"history_path"`
	ProgressInterval int          `toml:"progress_interval"`
	MetricsAddr      string       `toml:"metrics_addr"`
	Fonts            FontsConfig  `toml:"fonts"`
	Report           ReportConfig `toml:"report"`
}

// FontsConfig lists the fonts prepared before a search
type FontsConfig struct {
	Primary  []domain.FontName `toml:"primary"`
	Fallback []domain.FontName `toml:"fallback"`
}

// ReportConfig configures the swatch-card report
type ReportConfig struct {
	Width int `toml:"width"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel:         "info",
		ProgressInterval: DefaultProgressInterval,
		Fonts: FontsConfig{
			Primary:  []domain.FontName{{Family: "Inter", Style: "Regular"}, {Family: "Inter", Style: "Bold"}},
			Fallback: []domain.FontName{{Family: "Roboto", Style: "Regular"}, {Family: "Roboto", Style: "Bold"}},
		},
		Report: ReportConfig{Width: 72},
	}
}

// Load reads .env from the working directory if present, then the config
// file, then environment overrides. A missing config file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if err := cfg.mergeFile(Path()); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the config file location: $TOKENTRACE_CONFIG, else
// $XDG_CONFIG_HOME/tokentrace/config.toml
func Path() string {
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tokentrace", "config.toml")
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	c.merge(&file)
	return nil
}

// merge copies every field set in o over c
func (c *Config) merge(o *Config) {
	if o.Document != "" {
		c.Document = o.Document
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogPretty {
		c.LogPretty = true
	}
	if o.HistoryPath != "" {
		c.HistoryPath = o.HistoryPath
	}
	if o.ProgressInterval > 0 {
		c.ProgressInterval = o.ProgressInterval
	}
	if o.MetricsAddr != "" {
		c.MetricsAddr = o.MetricsAddr
	}
	if len(o.Fonts.Primary) > 0 {
		c.Fonts.Primary = o.Fonts.Primary
	}
	if len(o.Fonts.Fallback) > 0 {
		c.Fonts.Fallback = o.Fonts.Fallback
	}
	if o.Report.Width > 0 {
		c.Report.Width = o.Report.Width
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDocument); v != "" {
		c.Document = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvHistory); v != "" {
		c.HistoryPath = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv("TOKENTRACE_LOG_PRETTY"); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TOKENTRACE_LOG_PRETTY: %w", err)
		}
		c.LogPretty = pretty
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = DefaultProgressInterval
	}
	return nil
}
