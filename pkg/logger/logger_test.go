package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initBuffer(t *testing.T, cfg Config) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, initWriter(&buf, cfg))
	t.Cleanup(func() { _ = Init(Config{}) })
	return &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestInitRejectsUnknownOutput(t *testing.T) {
	assert.Error(t, initWriter(&bytes.Buffer{}, Config{Output: "xml"}))
}

func TestJSONRecord(t *testing.T) {
	buf := initBuffer(t, Config{Output: OutputJSON})

	ctx := WithContext(context.Background(), slog.Uint64("sale_id", 7))
	DebugContext(ctx, "hidden")
	assert.Zero(t, buf.Len(), "debug records are dropped outside debug mode")

	InfoContext(ctx, "sale activated", slog.Duration("duration", 1500*time.Millisecond))
	record := decode(t, buf)
	assert.Equal(t, "sale activated", record["msg"])
	assert.EqualValues(t, 7, record["sale_id"])
	assert.EqualValues(t, 1500, record["duration"])
}

func TestErrorRecord(t *testing.T) {
	buf := initBuffer(t, Config{Output: OutputJSON, Debug: true})

	ErrorContext(context.Background(), "round failed", errors.New("boom"))
	record := decode(t, buf)
	assert.Equal(t, "boom", record[slogx.ErrorKey])
	assert.Contains(t, record[ErrorVerboseKey], "boom")
	assert.NotEmpty(t, record[ErrorStackTraceKey])
}

func TestGCPSeverity(t *testing.T) {
	buf := initBuffer(t, Config{Output: OutputGCP})

	LogAttrs(context.Background(), LevelCritical, "custody mismatch")
	record := decode(t, buf)
	assert.Equal(t, "CRITICAL", record["severity"])
	assert.Equal(t, "custody mismatch", record["message"])
}

func TestReplaceLevel(t *testing.T) {
	cases := map[slog.Level]string{
		LevelCritical:     "CRITICAL",
		LevelCritical + 1: "CRITICAL+1",
		LevelPanic:        "PANIC",
		LevelFatal + 2:    "FATAL+2",
	}
	for level, want := range cases {
		attr := replaceLevel(nil, slog.Any(slog.LevelKey, level))
		assert.Equal(t, want, attr.Value.String())
	}

	info := replaceLevel(nil, slog.Any(slog.LevelKey, slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, info.Value.Any())
}
