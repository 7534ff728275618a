package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	dev, err := NewLogger(true)
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	prod, err := NewLogger(false)
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))

	assert.NotPanics(t, func() { MustNewLogger(false) })
}

func TestEpisodeFields(t *testing.T) {
	assert.Len(t, Episode("cortex_1549000000", ""), 1)
	assert.Equal(t, []zap.Field{zap.String("episode", "e"), zap.String("provider", "aws")}, Episode("e", "aws"))
}

func TestTemporalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewTemporalLogger(zap.New(core))

	logger.Info("activity started", "episode", "cortex_1549000000", "attempt", 2)
	logger.Error("activity failed", "error", "boom")
	logger.Debug("tick")
	logger.Warn("slow")

	require.Equal(t, 4, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "activity started", first.Message)
	assert.Equal(t, "cortex_1549000000", first.ContextMap()["episode"])
	assert.EqualValues(t, 2, first.ContextMap()["attempt"])
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}
