package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestJSONLogging(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	config := Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "test-service",
		Version:     "1.0.0",
		Environment: "test",
	}

	InitLoggerWithWriter(config, &buf)
	slog.Info("test message", "key", "value", "number", 42)

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

	assert.Equal(t, "test-service", logEntry["service"])
	assert.Equal(t, "1.0.0", logEntry["version"])
	assert.Equal(t, "test", logEntry["environment"])
	assert.Equal(t, "test message", logEntry["msg"])
	assert.Equal(t, "INFO", logEntry["level"])
	assert.Equal(t, "value", logEntry["key"])
	assert.Equal(t, float64(42), logEntry["number"])
}

func TestTextLoggingRespectsLevel(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	InitLoggerWithWriter(NewConfig("warn", "text", "svc", "v", "dev"), &buf)
	slog.Info("hidden")
	slog.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "service=svc")
}

func TestRunIDContext(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	InitLoggerWithWriter(Config{Level: "debug", Format: "json"}, &buf)

	id := GenerateRunID()
	ctx := WithRunID(context.Background(), id)

	got, ok := RunIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	FromContext(ctx).Info("with run")
	assert.Contains(t, buf.String(), id)

	_, ok = RunIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestConfig_LogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, Config{Level: tt.level}.LogLevel())
		})
	}

	assert.True(t, Config{Format: strings.ToUpper(LogFormatJSON)}.IsJSON())
	assert.False(t, DefaultConfig().IsJSON())
}

func TestNewConfig(t *testing.T) {
	t.Run("empty values take defaults", func(t *testing.T) {
		cfg := NewConfig("", "", "", "", "")

		assert.Equal(t, DefaultConfig(), Config{
			Level: cfg.Level, Format: cfg.Format, ServiceName: cfg.ServiceName,
			Version: cfg.Version, Environment: cfg.Environment,
		})
		assert.True(t, cfg.AddSource, "the default environment is dev")
	})

	t.Run("source locations only in dev", func(t *testing.T) {
		assert.False(t, NewConfig("info", "json", "armory", "1.0.0", EnvironmentProd).AddSource)
	})

	t.Run("defaults applied when installing", func(t *testing.T) {
		restoreDefault(t)
		var buf bytes.Buffer
		InitLoggerWithWriter(Config{Format: LogFormatJSON}, &buf)
		slog.Info("defaults")

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
		assert.Equal(t, DefaultServiceName, logEntry["service"])
		assert.Equal(t, EnvironmentDev, logEntry["environment"])
	})
}
