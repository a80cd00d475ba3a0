package logger

import (
	"bytes"
	"testing"

	"gateway2mqtt/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger(config.LogConf{Level: "loud"})
	require.Error(t, err)
}

func TestLog_WithAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(config.LogConf{Level: "info"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "info", log.GetLevel())

	log.With(Fields{"module": "mqtt"}).Info("connected")
	log.Debug("hidden")

	assert.Contains(t, buf.String(), "module=mqtt")
	assert.Contains(t, buf.String(), "connected")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(config.LogConf{Level: "debug"}, &buf)
	require.NoError(t, err)

	p := log.Printer("warn")
	p.Printf("retry %d", 3)
	p.Println("lost")

	out := buf.String()
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, "retry 3")
	assert.Contains(t, out, "lost")
}
