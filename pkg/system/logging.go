// Package system holds process-level plumbing shared by the CLI and
// tests: logger construction and build metadata helpers.
package system

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the application logger. Debug mode switches to the
// human-readable development encoder; both modes log timestamps as UTC
// RFC3339 and skip stacktraces below fatal so routine warnings stay
// readable.
func NewLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = utcTimestamps

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger (debug=%t): %w", debug, err)
	}
	return logger, nil
}

func utcTimestamps(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(time.RFC3339))
}
