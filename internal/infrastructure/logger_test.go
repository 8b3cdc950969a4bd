package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econcal/internal/config"
	"econcal/internal/shared/testutil"
)

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		out = append(out, entry)
	}
	return out
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "calendar.log")

	logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: "file", FilePath: path})
	require.NoError(t, err)

	logger.Info("calendar data received", slog.Int("records", 6))
	logger.Debug("dropped below level")
	require.NoError(t, CloseLogFile())
	require.NoError(t, CloseLogFile())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	entries := decodeLines(t, data)
	require.Len(t, entries, 1)
	assert.Equal(t, "calendar data received", entries[0]["msg"])
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.EqualValues(t, 6, entries[0]["records"])
	assert.Contains(t, entries[0], "source")
}

func TestNewLogger_UnwritablePath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := NewLogger(config.LoggingConfig{Output: "both", FilePath: filepath.Join(blocker, "app.log")})
	assert.ErrorContains(t, err, "failed to open log file")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestTraceHandler_InjectsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, "debug").With(slog.String("component", "calendar_service"))

	logger.InfoContext(WithTraceID(context.Background(), "req-7"), "calendar workbook generated")
	logger.InfoContext(context.Background(), "calendar data cleared")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 2)
	assert.Equal(t, "req-7", entries[0]["trace_id"])
	assert.Equal(t, "calendar_service", entries[0]["component"])
	assert.NotContains(t, entries[1], "trace_id")
}

func TestLoggerFromContext(t *testing.T) {
	base, baseLogs := testutil.NewTestLogger(t)
	scoped := base.With(slog.String("request_id", "r-1"))

	assert.Same(t, base, LoggerFromContext(context.Background(), base))

	ctx := ContextWithLogger(context.Background(), scoped)
	LoggerFromContext(ctx, base).Info("serving calendar workbook")
	testutil.AssertLogAttr(t, baseLogs, "request_id", "r-1")

	ctx = ContextWithLogger(context.Background(), nil)
	assert.Same(t, base, LoggerFromContext(ctx, base))
}

func TestWithComponentAndError(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)

	WithComponent(logger, "template_service").Info("template uploaded")
	testutil.AssertLogAttr(t, logs, "component", "template_service")

	assert.Same(t, logger, WithError(logger, nil))

	WithError(logger, errors.New("disk full")).Error("template update failed")
	testutil.AssertLogAttr(t, logs, "error", "disk full")
}
