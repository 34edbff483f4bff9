package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/nitflow/internal/logger"
)

const envManifest = "NITFLOW_MANIFEST"

// Config represents the nitflow configuration file (~/.config/nitflow/config.yaml).
type Config struct {
	Manifest string `yaml:"manifest"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string         `yaml:"server_address"`
	ReadTimeout   *time.Duration `yaml:"read_timeout"`
}

// cfg is populated by setup before any subcommand runs.
var cfg Config

func configPath() string {
	if configFile != "" {
		return configFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "nitflow", "config.yaml")
}

// loadConfig reads the config file at path. A missing file yields a zero
// Config; a malformed one is an error.
func loadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// applyLoggingConfig fills logging flags from the config file when the flag
// was not set explicitly.
func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string, readTimeout *time.Duration) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.ReadTimeout != nil && !c.IsSet("read-timeout") {
		*readTimeout = *cfg.ReadTimeout
	}
}

// resolveManifest returns the manifest path from the flag, the environment
// or the config file, in that order.
func resolveManifest() (string, error) {
	if p := strings.TrimSpace(manifestPath); p != "" {
		return p, nil
	}
	if p := strings.TrimSpace(cfg.Manifest); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("no manifest given (use --manifest, %s or the config file)", envManifest)
}

func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	c, err := loadConfig(configPath())
	if err != nil {
		return ctx, err
	}
	cfg = c
	applyLoggingConfig(cmd, cfg)

	level := logger.ParseLevel(logLevel)
	if debug {
		level = slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(logFormat)) {
	case "", "pretty", "json", "text":
	default:
		return ctx, fmt.Errorf("unknown log format %q (want pretty, json or text)", logFormat)
	}
	log := logger.ForFormat(os.Stderr, logFormat, level)
	return logger.WithContext(ctx, log), nil
}
