package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/azsonic/10xdevs-flashcards/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", "debug", slog.LevelDebug, true},
		{"upper case", "WARN", slog.LevelWarn, true},
		{"error", "error", slog.LevelError, true},
		{"unknown", "verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSetupWritesJSONAtConfiguredLevel(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	buf := &TestLogBuffer{}
	l := setup(config.ServerConfig{LogLevel: "warn"}, buf)

	l.Info("dropped")
	l.Warn("kept", "component", "test")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
	AssertLogField(t, buf, "component", "test")
	assert.Same(t, l, slog.Default())
}

func TestContextLogger(t *testing.T) {
	_, l := NewTestLogger(t)
	fallback := Discard()

	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))

	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
	assert.Same(t, l, FromContextOrDefault(ctx, fallback))
}
