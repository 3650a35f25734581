// Package logger wraps zap construction for the onboarding server.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger carries the application's zap logger.
type Logger struct {
	// Log is the underlying zap logger. It is a no-op logger until Init
	// succeeds.
	Log *zap.Logger
}

// New returns a Logger with a no-op zap logger so callers may log safely
// before Init is called.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds the production logger at the given level. Accepted levels are
// Debug, Info, Warn, and Error (case-insensitive).
func (l *Logger) Init(level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build zap logger: %w", err)
	}
	l.Log = logger
	return nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level: %q", level)
}
