package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Zereker/flashtx"
)

var _ flashtx.Logger = (*Adapter)(nil)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw   string
		level zerolog.Level
		ok    bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			level, ok := ParseLevel(tt.raw)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseBool(t *testing.T) {
	v, ok := parseBool("true")
	assert.True(t, v)
	assert.True(t, ok)

	_, ok = parseBool("")
	assert.False(t, ok)

	_, ok = parseBool("maybe")
	assert.False(t, ok)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogNoColor, "1")
	t.Setenv(EnvLogTimestamp, "false")

	cfg := DefaultConfig()
	applyEnvOverrides(&cfg)

	assert.Equal(t, Config{Level: zerolog.ErrorLevel, NoColor: true}, cfg)
}

func TestAdapter(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	log := Adapt(New(&buf, "flashtx", Config{Level: zerolog.InfoLevel, NoColor: true}))

	log.Debug("hidden", "k", 1)
	assert.Empty(buf.String())

	log.Info("transmission started", "session", 3, "slot", 100*time.Millisecond)
	out := buf.String()
	assert.Contains(out, "transmission started")
	assert.Contains(out, "session=3")
	assert.Contains(out, "slot=100ms")
	assert.Contains(out, "app=flashtx")

	buf.Reset()
	log.Warn("actuator state change failed", "error", errors.New("port gone"), "dangling")
	out = buf.String()
	assert.Contains(out, "port gone")
	assert.Contains(out, "dangling")
}
