package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/louis49/androidtv-remote/internal/core"
)

// Validate checks the structural validity of a Config: the version, the
// log section, and that every module entry names a registered module.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	if len(cfg.Modules) == 0 {
		errs = append(errs, errors.New("config: at least one module must be configured"))
	}

	for _, id := range Resolve(cfg) {
		if _, ok := core.GetModule(id); !ok {
			errs = append(errs, fmt.Errorf("config: unknown module %q", id))
		}
	}

	errs = append(errs, validateLog(cfg.Log)...)

	if r := cfg.Telemetry.SampleRatio; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("config: telemetry.sample_ratio %v is outside [0, 1]", r))
	}

	return errors.Join(errs...)
}

func validateLog(l LogConfig) []error {
	var errs []error
	if l.Level != "" {
		if _, err := ParseLevel(l.Level); err != nil {
			errs = append(errs, err)
		}
	}
	switch l.Format {
	case "", FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("config: log.format %q (supported: text, json)", l.Format))
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		errs = append(errs, errors.New("config: log rotation limits must not be negative"))
	}
	return errs
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log.level %q: %w", s, err)
	}
	return lvl, nil
}
