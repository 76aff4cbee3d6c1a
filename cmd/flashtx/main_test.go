package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zereker/flashtx/actuator"
	"github.com/Zereker/flashtx/internal/config"
)

func TestMessageFlag(t *testing.T) {
	msg, err := messageFlag("send", []string{"-m", "hello world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", msg)

	msg, err = messageFlag("send", []string{"hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", msg)

	_, err = messageFlag("send", []string{"-x"})
	assert.Error(t, err)
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flashtx.toml")
	require.NoError(t, os.WriteFile(path, []byte("slot_duration = \"1s\"\n"), 0o644))

	cfg, err := loadConfig(globalFlags{config: path})
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.SlotDuration)

	cfg, err = loadConfig(globalFlags{config: path, slot: 20 * time.Millisecond, actuator: config.KindLED})
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, cfg.SlotDuration)
	assert.Equal(t, config.KindLED, cfg.Actuator.Kind)

	_, err = loadConfig(globalFlags{actuator: "laser"})
	assert.Error(t, err)
}

func TestOpenActuator(t *testing.T) {
	l, err := openActuator(config.ActuatorConfig{Kind: config.KindConsole})
	require.NoError(t, err)
	assert.IsType(t, &actuator.Console{}, l)

	_, err = openActuator(config.ActuatorConfig{Kind: "laser"})
	assert.Error(t, err)

	_, err = openActuator(config.ActuatorConfig{Kind: config.KindSerial})
	assert.Error(t, err)
}

func TestRun_Commands(t *testing.T) {
	assert.NoError(t, run(context.Background(), globalFlags{}, "encode", []string{"-m", "A"}))
	assert.Error(t, run(context.Background(), globalFlags{}, "encode", []string{"-m", ""}))
	assert.Error(t, run(context.Background(), globalFlags{}, "blink", nil))
}

func TestRun_SendConsole(t *testing.T) {
	g := globalFlags{actuator: config.KindConsole, slot: time.Millisecond}
	assert.NoError(t, run(context.Background(), g, "send", []string{"-m", "ok"}))
}
