package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithSearch_AddsSearchID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core).Sugar())
	t.Cleanup(func() { Set(zap.NewNop().Sugar()) })

	WithSearch("abc-123").Infow("state", "to", "FETCHED")
	Warn("plain", "k", "v")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["search_id"])
	assert.Equal(t, "FETCHED", entries[0].ContextMap()["to"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestInit_WithFile(t *testing.T) {
	t.Cleanup(func() { Set(zap.NewNop().Sugar()) })

	require.NoError(t, Init("production", filepath.Join(t.TempDir(), "app.log")))
	Info("hello", "n", 1)
	_ = Close()
}
