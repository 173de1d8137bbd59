package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	dev := NewLogger("development", "")
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	prod := NewLogger("production", "")
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, prod.Core().Enabled(zapcore.InfoLevel))

	quiet := NewLogger("development", "warn")
	assert.False(t, quiet.Core().Enabled(zapcore.InfoLevel))

	// unknown level falls back to the environment default
	fallback := NewLogger("production", "loud")
	assert.True(t, fallback.Core().Enabled(zapcore.InfoLevel))
}
