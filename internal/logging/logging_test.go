package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	table := []struct {
		level   string
		verbose bool
		enabled zapcore.Level
		quiet   zapcore.Level
	}{
		{"info", false, zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn", false, zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", true, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"", false, zapcore.InfoLevel, zapcore.DebugLevel},
	}

	for i, test := range table {
		logger, err := New(test.level, test.verbose)
		require.NoError(t, err, "%d)", i+1)
		assert.True(t, logger.Core().Enabled(test.enabled), "%d)", i+1)
		assert.False(t, logger.Core().Enabled(test.quiet), "%d)", i+1)
	}
}

func TestNewBadLevel(t *testing.T) {
	_, err := New("shouty", false)
	assert.Error(t, err)
}
