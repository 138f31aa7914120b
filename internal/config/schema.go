// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for the atvremote daemon.
package config

import (
	"github.com/louis49/androidtv-remote/internal/telemetry"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// DataDir overrides where the credential store lives.
	DataDir string `yaml:"data_dir,omitempty"`

	Log       LogConfig        `yaml:"log"`
	Telemetry telemetry.Config `yaml:"telemetry"`

	// Modules maps module IDs to their raw YAML configuration.
	// Keys must match registered module IDs (e.g. "androidtv.remote").
	Modules map[string]yaml.Node `yaml:"modules"`
}

// LogConfig selects the log level, format and optional rotating file.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`

	// File, when set, receives a copy of the log, rotated by size.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)
