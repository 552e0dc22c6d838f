package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{false, true} {
		logger, err := NewLogger(debug)
		require.NoError(t, err)
		require.NotNil(t, logger)
		logger.Info("boot check")
	}
}

func TestTestLoggers(t *testing.T) {
	sugared := NewTestLogger()
	require.NotNil(t, sugared)
	sugared.Infow("message with fields", "key", "value")

	plain := NewTestZapLogger()
	require.NotNil(t, plain)
	plain.Info("plain logger message")
	assert.NotNil(t, plain.Sugar())
}
