package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/finance-dashboard/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logLevels = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// initializeLogger builds the process logger from the logging section. A
// non-empty levelOverride (--log-level) replaces the configured level.
func initializeLogger(lc config.LoggingConfig, levelOverride string) (*zap.Logger, error) {
	name := firstNonEmpty(levelOverride, lc.Level, "info")
	level, ok := logLevels[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("invalid log level: %s", name)
	}

	var cfg zap.Config
	switch format := firstNonEmpty(lc.Format, "json"); format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	if lc.OutputFile != "" {
		if err := ensureLogFile(lc.OutputFile); err != nil {
			return nil, err
		}
		cfg.OutputPaths = []string{lc.OutputFile}
		cfg.ErrorOutputPaths = []string{lc.OutputFile}
	}

	return cfg.Build()
}

// ensureLogFile creates path and its directory so a bad location fails at
// startup instead of on the first write.
func ensureLogFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file.Close()
}
