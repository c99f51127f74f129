// Package observability wires logging, metrics and tracing.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger whose level can be changed through the
// returned AtomicLevel. Development environments get a console encoder.
func NewLogger(level, environment string) (*zap.Logger, zap.AtomicLevel, error) {
	atomicLevel, err := ParseLevel(level)
	if err != nil {
		return nil, atomicLevel, err
	}
	logger, err := NewLoggerWithLevel(atomicLevel, environment)
	return logger, atomicLevel, err
}

// NewLoggerWithLevel builds a logger controlled by an existing AtomicLevel.
func NewLoggerWithLevel(atomicLevel zap.AtomicLevel, environment string) (*zap.Logger, error) {
	var cfg zap.Config
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = atomicLevel

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel converts a level name such as "debug" into an AtomicLevel.
func ParseLevel(level string) (zap.AtomicLevel, error) {
	if level == "" {
		level = "info"
	}
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return zap.NewAtomicLevel(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return atomicLevel, nil
}
