package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	t.Run("level from environment value", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, false, "warn")
		log.Info("hidden")
		log.Warn("shown", "key", "value")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "msg=shown key=value")
		assert.NotContains(t, out, "time=")
	})

	t.Run("debug overrides level", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, true, "error")
		log.Debug("details")

		out := buf.String()
		assert.Contains(t, out, "msg=details")
		assert.Contains(t, out, "source=")
	})
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/chain/host.go", shortPath("/home/dev/proxyforge/internal/chain/host.go"))
	assert.Equal(t, "chain/host.go", shortPath("/somewhere/else/chain/host.go"))
	assert.Equal(t, "host.go", shortPath("host.go"))
}
