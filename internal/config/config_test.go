package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flashtx.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	assert := assert.New(t)

	path := writeConfig(t, `
slot_duration = "250ms"
buffer_size = 4

[actuator]
kind = " Serial "
port = "/dev/ttyUSB0"
baud = 19200
on_command = 0x12
off_command = 0x22

[control]
addr = "0.0.0.0:9000"
shutdown_timeout = "3s"

[metrics]
addr = "127.0.0.1:9090"

[log]
level = "debug"
no_color = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(250*time.Millisecond, cfg.SlotDuration)
	assert.Equal(4, cfg.BufferSize)
	assert.Equal(ActuatorConfig{
		Kind:       KindSerial,
		Port:       "/dev/ttyUSB0",
		Baud:       19200,
		OnCommand:  0x12,
		OffCommand: 0x22,
	}, cfg.Actuator)
	assert.Equal("0.0.0.0:9000", cfg.Control.Addr)
	assert.Equal(3*time.Second, cfg.Control.ShutdownTimeout)
	assert.Equal(4096, cfg.Control.MaxLine)
	assert.Equal("127.0.0.1:9090", cfg.Metrics.Addr)
	assert.Equal(LogConfig{Level: "debug", NoColor: true}, cfg.Log)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad duration", `slot_duration = "soon"`},
		{"zero slot", `slot_duration = "0s"`},
		{"unknown key", `slot = "1s"`},
		{"command range", "[actuator]\non_command = 300"},
		{"unknown kind", "[actuator]\nkind = \"laser\""},
		{"serial without port", "[actuator]\nkind = \"serial\""},
		{"same commands", "[actuator]\nkind = \"serial\"\nport = \"x\"\non_command = 1\noff_command = 1"},
		{"syntax", `slot_duration = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Actuator.Kind = KindLED
	assert.NoError(t, cfg.Validate())

	cfg.Actuator.Kind = KindGPIO
	cfg.Actuator.Pin = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Control.MaxLine = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Control.Addr = ""
	assert.Error(t, cfg.Validate())
}
