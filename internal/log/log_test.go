package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core))
	t.Cleanup(func() { Use(build("console").Desugar()) })
	return logs
}

func TestKeyValuePairs(t *testing.T) {
	logs := observe(t)

	Info("catalog loaded", "path", "/etc/legalclerk/catalog.yaml", "dangling")
	entries := logs.FilterMessage("catalog loaded").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "/etc/legalclerk/catalog.yaml", ctx["path"])
	assert.Len(t, ctx, 1, "odd trailing key is dropped")
}

func TestErrorPrependsErr(t *testing.T) {
	logs := observe(t)

	Error("load failed", errors.New("boom"), "id", "civil")
	entries := logs.FilterMessage("load failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "civil", entries[0].ContextMap()["id"])
	assert.Contains(t, entries[0].ContextMap(), "err")
}

func TestNonStringKeysSkipped(t *testing.T) {
	logs := observe(t)
	Warn("odd keys", 42, "value", "ok", "yes")
	entries := logs.FilterMessage("odd keys").All()
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]interface{}{"ok": "yes"}, entries[0].ContextMap())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"":        LevelInfo,
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestConfigure(t *testing.T) {
	t.Cleanup(func() {
		SetLevel(LevelInfo)
		Use(build("console").Desugar())
	})
	require.NoError(t, Configure("debug", "json"))
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	assert.Error(t, Configure("info", "xml"))
	assert.Error(t, Configure("chatty", "console"))
}
