package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"walrusup/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string // debug, info, warn, error; anything else means info
	Format string // console (default) or json
	Writer io.Writer
}

// New constructs a slog logger writing to opts.Writer, or stderr when unset.
// Source locations are attached at debug level.
func New(opts Options) (*slog.Logger, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(opts.Level))

	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	addSource := levelVar.Level() <= slog.LevelDebug

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		return slog.New(newPrettyHandler(writer, levelVar, addSource)), nil
	case "json":
		return slog.New(newJSONHandler(writer, levelVar, addSource)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewForConsole builds a logger writing to console and appending to the
// configured log file. A non-empty level overrides the configured one.
func NewForConsole(cfg *config.Config, console io.Writer, level string) (*slog.Logger, error) {
	if console == nil {
		console = os.Stderr
	}
	opts := Options{Level: "info", Writer: console}
	if cfg != nil {
		opts.Level = cfg.Logging.Level
		opts.Format = cfg.Logging.Format
		if logPath := cfg.LogFile(); logPath != "" {
			file, err := openLogFile(logPath)
			if err != nil {
				return nil, err
			}
			opts.Writer = io.MultiWriter(console, file)
		}
	}
	if strings.TrimSpace(level) != "" {
		opts.Level = level
	}
	return New(opts)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openLogFile opens path for appending. The handle stays open for the life of
// the process.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
