package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/aegis-quant/pkg/config"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	return &Logger{zlog: zerolog.New(buf).With().Timestamp().Logger()}
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log line: %s", buf.String())
	return entry
}

func TestNew_SetsGlobalLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := NewWithWriter(&config.Config{Env: "development", LogLevel: tt.level, LogFormat: "json"}, &bytes.Buffer{})
			require.NotNil(t, log)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"warning", zerolog.WarnLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.input), "input %q", tt.input)
	}
}

func TestNewWithWriter_JSONCarriesEnv(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "staging", LogLevel: "info", LogFormat: "json"}, &buf)

	log.Info("picks published")

	entry := decode(t, &buf)
	assert.Equal(t, "staging", entry["env"])
	assert.Equal(t, "aegis-quant", entry["service"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "picks published", entry["message"])
}

func TestNewWithWriter_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&config.Config{Env: "development", LogLevel: "info", LogFormat: "console"}, &buf)

	log.WithField("universe", "penny").Warn("universe empty")

	assert.True(t, strings.Contains(buf.String(), "universe empty"))
	assert.True(t, strings.Contains(buf.String(), "penny"))
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	for _, tt := range []struct {
		level string
		emit  func()
	}{
		{"debug", func() { log.Debug("m") }},
		{"info", func() { log.Info("m") }},
		{"warn", func() { log.Warn("m") }},
		{"error", func() { log.Error("m") }},
	} {
		buf.Reset()
		tt.emit()
		entry := decode(t, &buf)
		assert.Equal(t, tt.level, entry["level"])
		assert.Equal(t, "m", entry["message"])
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.WithField("algorithm", "canslim").
		WithFields(map[string]interface{}{"symbol": "NVDA", "score": 90}).
		Info("scored")

	entry := decode(t, &buf)
	assert.Equal(t, "canslim", entry["algorithm"])
	assert.Equal(t, "NVDA", entry["symbol"])
	assert.Equal(t, float64(90), entry["score"])
}

func TestModule(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.Module("fetcher").Info("cache hit")

	entry := decode(t, &buf)
	assert.Equal(t, "fetcher", entry["module"])
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.WithError(errors.New("chart fetch failed")).Error("fetch")

	entry := decode(t, &buf)
	assert.Equal(t, "chart fetch failed", entry["error"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().WithField("k", "v").Info("discarded")
	})
}
