package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in       string
		expected zapcore.Level
	}{
		{"", zapcore.WarnLevel},
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tc := range testCases {
		l, err := ParseLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.expected, l, tc.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden breadcrumb")
	logger.Warn("visible warning", zap.String("path", "/tmp/x"))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden breadcrumb")
	assert.Contains(t, out, "visible warning")
	assert.Contains(t, out, "/tmp/x")
}

func TestDebugOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(Config{Level: "error", Debug: true}, &buf)
	require.NoError(t, err)

	logger.Debug("dispatch", zap.String("command", "ls"))
	require.NoError(t, logger.Sync())

	assert.Contains(t, buf.String(), "dispatch")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}
