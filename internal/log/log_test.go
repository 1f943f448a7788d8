package log_test

import (
	"bytes"
	"strings"
	"testing"

	"bennypowers.dev/themec/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture routes log output to a buffer at the given level for one test
func capture(t *testing.T, level log.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := log.GetLevel()
	log.SetOutput(&buf)
	log.SetLevel(level)
	t.Cleanup(func() {
		log.SetOutput(nil)
		log.SetLevel(original)
	})
	return &buf
}

func logAll() {
	log.Debug("rebuilding %d units", 3)
	log.Info("wrote %s", "light.theme.css")
	log.Warn("missing variable %s", "--x")
	log.Error("theme %s failed", "dark")
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestLevels(t *testing.T) {
	debug := "DEBUG: [themec] rebuilding 3 units"
	info := "INFO: [themec] wrote light.theme.css"
	warn := "WARN: [themec] missing variable --x"
	errLine := "ERROR: [themec] theme dark failed"

	tests := []struct {
		name     string
		level    log.Level
		expected []string
	}{
		{name: "debug", level: log.LevelDebug, expected: []string{debug, info, warn, errLine}},
		{name: "info", level: log.LevelInfo, expected: []string{info, warn, errLine}},
		{name: "warn", level: log.LevelWarn, expected: []string{warn, errLine}},
		{name: "error", level: log.LevelError, expected: []string{errLine}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, tt.level)
			logAll()
			assert.Equal(t, tt.expected, lines(buf))
			assert.True(t, strings.HasSuffix(buf.String(), "\n"))
		})
	}
}

func TestMessageFormatting(t *testing.T) {
	t.Run("percent signs in arguments are literal", func(t *testing.T) {
		buf := capture(t, log.LevelInfo)
		log.Info("value %s", "50%")
		assert.Equal(t, []string{"INFO: [themec] value 50%"}, lines(buf))
	})

	t.Run("no timestamp or color codes", func(t *testing.T) {
		buf := capture(t, log.LevelInfo)
		log.Info("plain")
		require.Equal(t, []string{"INFO: [themec] plain"}, lines(buf))
		assert.NotContains(t, buf.String(), "\x1b[")
	})
}

func TestSetLevel(t *testing.T) {
	original := log.GetLevel()
	defer log.SetLevel(original)

	for _, level := range []log.Level{log.LevelDebug, log.LevelWarn, log.LevelError} {
		log.SetLevel(level)
		assert.Equal(t, level, log.GetLevel())
	}
}

func TestNilOutputSilences(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetOutput(nil)
	defer log.SetOutput(nil)

	assert.NotPanics(t, func() {
		log.Error("dropped")
	})
	assert.Empty(t, buf.String())
}
