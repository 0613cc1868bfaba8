package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "info", Format: "json", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_UnopenablePath(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/chemdraw/out.log"}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"Warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("msg")
		l.Info("msg", String("k", "v"))
		l.Warn("msg")
		l.Error("msg", Err(errors.New("boom")))
		assert.Equal(t, l, l.With(Int("n", 1)))
		assert.Equal(t, l, l.Named("x"))
		assert.NoError(t, l.Sync())
	})
}

func TestZapLogger_FieldsAreTyped(t *testing.T) {
	l, logs := newObservedLogger()

	l.Info("generation finished",
		String("formula", "H2O"),
		Strings("suggestions", []string{"C6H12O6"}),
		Int("atoms", 3),
		Int64("bytes", 42),
		Float64("zoom", 1.2),
		Bool("cached", true),
		Duration("took", 250*time.Millisecond),
		Err(errors.New("boom")),
		Any("mode", struct{ Name string }{"sdf"}),
	)

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "H2O", ctx["formula"])
	assert.Equal(t, int64(3), ctx["atoms"])
	assert.Equal(t, true, ctx["cached"])
	assert.Equal(t, 250*time.Millisecond, ctx["took"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestZapLogger_LevelsAndChildren(t *testing.T) {
	l, logs := newObservedLogger()

	child := l.Named("viewer").With(String("session", "abc"))
	child.Debug("d")
	child.Warn("w")
	child.Error("e")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "viewer", entries[2].LoggerName)
	assert.Equal(t, "abc", entries[2].ContextMap()["session"])
}

func TestErr_Nil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newObservedLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	SetDefault(nil)
	assert.Equal(t, l, Default(), "nil must be ignored")
}

//Personal.AI order the ending
