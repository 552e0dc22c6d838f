package system

import (
	"go.uber.org/zap"
)

// NewTestLogger returns a sugared development logger for tests.
func NewTestLogger() *zap.SugaredLogger {
	return NewTestZapLogger().Sugar()
}

// NewTestZapLogger is NewTestLogger for callers that want the plain
// *zap.Logger. The fixed debug config cannot fail to build.
func NewTestZapLogger() *zap.Logger {
	logger, err := NewLogger(true)
	if err != nil {
		panic(err)
	}
	return logger
}
