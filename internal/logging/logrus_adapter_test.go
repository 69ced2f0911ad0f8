package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(level logrus.Level) (Logger, *bytes.Buffer) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(level)
	logrusLogger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return NewLogrusAdapterFromLogger(logrusLogger), &buf
}

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{name: "debug level with text format", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info level with json format", level: "info", format: "json", expectLevel: logrus.InfoLevel},
		{name: "mixed case level", level: " WARN ", format: "text", expectLevel: logrus.WarnLevel},
		{name: "invalid level defaults to info", level: "loud", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tt.expectLevel, adapter.Level())

			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok)
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok)
			}
		})
	}
}

func TestNewLogrusAdapterWithOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("info", "json", &buf)
	logger.Info("statement parsed", Field{Key: FieldCount, Value: 3})

	out := buf.String()
	assert.Contains(t, out, `"msg":"statement parsed"`)
	assert.Contains(t, out, `"count":3`)
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func TestLogrusAdapter_LevelsAndFields(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...Field)
		message string
	}{
		{"debug", func(l Logger, m string, f ...Field) { l.Debug(m, f...) }, "debug message"},
		{"info", func(l Logger, m string, f ...Field) { l.Info(m, f...) }, "info message"},
		{"warn", func(l Logger, m string, f ...Field) { l.Warn(m, f...) }, "warn message"},
		{"error", func(l Logger, m string, f ...Field) { l.Error(m, f...) }, "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferedLogger(logrus.DebugLevel)
			tt.logFunc(logger, tt.message, Field{Key: FieldDelimiter, Value: ";"})

			out := buf.String()
			assert.Contains(t, out, tt.message)
			assert.Contains(t, out, FieldDelimiter)
		})
	}
}

func TestLogrusAdapter_ChainedCalls(t *testing.T) {
	logger, buf := newBufferedLogger(logrus.InfoLevel)

	logger.
		WithField(FieldFile, "extrato.csv").
		WithFields(Field{Key: FieldRow, Value: 7}).
		WithError(errors.New("invalid date")).
		Error("row skipped")

	out := buf.String()
	assert.Contains(t, out, "row skipped")
	assert.Contains(t, out, "extrato.csv")
	assert.Contains(t, out, "row=7")
	assert.Contains(t, out, "invalid date")
}

func TestLogrusAdapter_LevelFilters(t *testing.T) {
	logger, buf := newBufferedLogger(logrus.WarnLevel)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConvertFields(t *testing.T) {
	got := convertFields([]Field{
		{Key: "key1", Value: "value1"},
		{Key: "key2", Value: 42},
	})
	assert.Len(t, got, 2)
	assert.Equal(t, 42, got["key2"])
	assert.Len(t, convertFields(nil), 0)
}

func TestGetLoggerAndSetDefault(t *testing.T) {
	t.Cleanup(func() { SetDefault(nil) })

	SetDefault(nil)
	first := GetLogger()
	require.NotNil(t, first)
	assert.Same(t, first, GetLogger())

	mock := NewMockLogger()
	SetDefault(mock)
	assert.Same(t, mock, GetLogger())
	assert.Same(t, mock, OrDefault(nil))

	other := NewMockLogger()
	assert.Same(t, other, OrDefault(other))
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
