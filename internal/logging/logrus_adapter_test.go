package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
		expectJSON  bool
	}{
		{"debug level with text format", "debug", "text", logrus.DebugLevel, false},
		{"info level with json format", "info", "json", logrus.InfoLevel, true},
		{"warn level upper-case json", "warn", "JSON", logrus.WarnLevel, true},
		{"error level", "error", "text", logrus.ErrorLevel, false},
		{"invalid level defaults to info", "loud", "text", logrus.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogrusAdapterWithOutput(tt.level, tt.format, &buf)
			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			_, isJSON := adapter.logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.expectJSON, isJSON)
		})
	}
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func newBufferedAdapter(buf *bytes.Buffer) Logger {
	l := logrus.New()
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return NewLogrusAdapterFromLogger(l)
}

func TestLogrusAdapter_LoggingMethods(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...Field)
		level   string
	}{
		{"debug", func(l Logger, m string, f ...Field) { l.Debug(m, f...) }, "level=debug"},
		{"info", func(l Logger, m string, f ...Field) { l.Info(m, f...) }, "level=info"},
		{"warn", func(l Logger, m string, f ...Field) { l.Warn(m, f...) }, "level=warning"},
		{"error", func(l Logger, m string, f ...Field) { l.Error(m, f...) }, "level=error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newBufferedAdapter(&buf)
			tt.logFunc(logger, "line classified", Field{Key: FieldCategory, Value: "Services"})

			out := buf.String()
			assert.Contains(t, out, tt.level)
			assert.Contains(t, out, "line classified")
			assert.Contains(t, out, "category=Services")
		})
	}
}

func TestLogrusAdapter_DerivedLoggers(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedAdapter(&buf)

	logger.WithError(errors.New("boom")).
		WithField(FieldMutationNr, 42).
		WithFields(Field{Key: FieldParty, Value: "Stichting Veganisme"}).
		Warn("party lookup failed")

	out := buf.String()
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "mutation_nr=42")
	assert.Contains(t, out, "party=\"Stichting Veganisme\"")
}

func TestLogrusAdapter_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("info", "text", &buf).(*LogrusAdapter)

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.SetLevel("debug")
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	logger.SetLevel("nonsense")
	assert.Equal(t, logrus.DebugLevel, logger.logger.Level)
}

func TestSetGlobalLevel(t *testing.T) {
	prev := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(prev) })

	assert.True(t, SetGlobalLevel(" warn "))
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	assert.False(t, SetGlobalLevel("chatty"))
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
}
