package log_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appLog "ethiopicker/internal/log"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]appLog.Level{
		"debug": appLog.LevelDebug,
		"INFO":  appLog.LevelInfo,
		"Error": appLog.LevelError,
		"":      appLog.LevelInfo,
	} {
		got, err := appLog.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := appLog.ParseLevel("verbose")
	assert.Error(t, err)
}

func TestKeyValuesAndError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	appLog.Use(zap.New(core))

	appLog.Info("widget mounted", "id", "abc", "mode", "ethiopian")
	appLog.Error("edit rejected", errors.New("invalid date"), "id", "abc")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "widget mounted", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, map[string]any{"id": "abc", "mode": "ethiopian"}, entries[0].ContextMap())

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	ctx := entries[1].ContextMap()
	assert.Equal(t, "invalid date", ctx["err"])
	assert.Equal(t, "abc", ctx["id"])
}
