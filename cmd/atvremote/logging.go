package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/louis49/androidtv-remote/internal/config"
	"github.com/louis49/androidtv-remote/internal/security"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the process logger. It writes to stderr, and also to a
// size-rotated file when log.file is set, with secrets known to redactor
// masked. The returned func closes the file.
func newLogger(cfg config.LogConfig, redactor *security.Redactor) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		w = io.MultiWriter(os.Stderr, lj)
		closeFn = func() { _ = lj.Close() }
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.Format == config.FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(security.NewRedactingHandler(h, redactor)), closeFn, nil
}
