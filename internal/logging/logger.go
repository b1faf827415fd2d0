package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/koassets/rights-backend/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = slog.Default()

// Init wires the process-wide logger: JSON output goes to the rolling
// file only, text output is mirrored to stdout for local runs.
func Init(cfg *config.LoggingConfig) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Filename), 0755); err != nil {
		return err
	}

	writer := buildWriter(cfg)
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	logger = slog.New(handler).With("service", "rights-backend")
	slog.SetDefault(logger)

	return nil
}

func buildWriter(cfg *config.LoggingConfig) io.Writer {
	roller := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	if cfg.Format == "json" {
		return roller
	}
	return io.MultiWriter(os.Stdout, roller)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debug(msg string, args ...any) { logger.Debug(msg, args...) }

func Info(msg string, args ...any) { logger.Info(msg, args...) }

func Warn(msg string, args ...any) { logger.Warn(msg, args...) }

func Error(msg string, args ...any) { logger.Error(msg, args...) }

// With returns a child logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return logger.With(args...)
}
