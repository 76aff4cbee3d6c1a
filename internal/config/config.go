// Package config loads the flashtx TOML configuration.
package config

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/Zereker/flashtx"
)

// Actuator kinds.
const (
	KindConsole = "console"
	KindSerial  = "serial"
	KindGPIO    = "gpio"
	KindLED     = "led"
)

// Config is the effective configuration after defaults and overrides.
type Config struct {
	SlotDuration time.Duration
	BufferSize   int
	Actuator     ActuatorConfig
	Control      ControlConfig
	Metrics      MetricsConfig
	Log          LogConfig
}

type ActuatorConfig struct {
	Kind       string
	Port       string
	Baud       int
	OnCommand  byte
	OffCommand byte
	Pin        int
	LED        string
}

type ControlConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
	MaxLine         int
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string
}

type LogConfig struct {
	Level   string
	NoColor bool
}

// Default returns the built-in configuration: 100ms slots on the console.
func Default() Config {
	return Config{
		SlotDuration: flashtx.DefaultSlotDuration,
		BufferSize:   16,
		Actuator: ActuatorConfig{
			Kind:       KindConsole,
			Baud:       9600,
			OnCommand:  0x11,
			OffCommand: 0x21,
		},
		Control: ControlConfig{
			Addr:            "127.0.0.1:7070",
			ShutdownTimeout: time.Second,
			MaxLine:         4096,
		},
		Log: LogConfig{Level: "info"},
	}
}

type fileConfig struct {
	SlotDuration string `toml:"slot_duration"`
	BufferSize   int    `toml:"buffer_size"`
	Actuator     struct {
		Kind       string `toml:"kind"`
		Port       string `toml:"port"`
		Baud       int    `toml:"baud"`
		OnCommand  int    `toml:"on_command"`
		OffCommand int    `toml:"off_command"`
		Pin        int    `toml:"pin"`
		LED        string `toml:"led"`
	} `toml:"actuator"`
	Control struct {
		Addr            string `toml:"addr"`
		ShutdownTimeout string `toml:"shutdown_timeout"`
		MaxLine         int    `toml:"max_line"`
	} `toml:"control"`
	Metrics struct {
		Addr string `toml:"addr"`
	} `toml:"metrics"`
	Log struct {
		Level   string `toml:"level"`
		NoColor bool   `toml:"no_color"`
	} `toml:"log"`
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: load %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("config: unknown key %q in %s", undecoded[0].String(), path)
	}

	if err := apply(&cfg, meta, &raw); err != nil {
		return Config{}, errors.Wrapf(err, "config: %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func apply(cfg *Config, meta toml.MetaData, raw *fileConfig) error {
	if meta.IsDefined("slot_duration") {
		d, err := parseDuration(raw.SlotDuration)
		if err != nil {
			return errors.Wrap(err, "parse slot_duration")
		}
		cfg.SlotDuration = d
	}
	if meta.IsDefined("buffer_size") {
		cfg.BufferSize = raw.BufferSize
	}

	if meta.IsDefined("actuator", "kind") {
		cfg.Actuator.Kind = strings.ToLower(strings.TrimSpace(raw.Actuator.Kind))
	}
	if meta.IsDefined("actuator", "port") {
		cfg.Actuator.Port = strings.TrimSpace(raw.Actuator.Port)
	}
	if meta.IsDefined("actuator", "baud") {
		cfg.Actuator.Baud = raw.Actuator.Baud
	}
	if meta.IsDefined("actuator", "on_command") {
		b, err := commandByte(raw.Actuator.OnCommand)
		if err != nil {
			return errors.Wrap(err, "actuator.on_command")
		}
		cfg.Actuator.OnCommand = b
	}
	if meta.IsDefined("actuator", "off_command") {
		b, err := commandByte(raw.Actuator.OffCommand)
		if err != nil {
			return errors.Wrap(err, "actuator.off_command")
		}
		cfg.Actuator.OffCommand = b
	}
	if meta.IsDefined("actuator", "pin") {
		cfg.Actuator.Pin = raw.Actuator.Pin
	}
	if meta.IsDefined("actuator", "led") {
		cfg.Actuator.LED = strings.TrimSpace(raw.Actuator.LED)
	}

	if meta.IsDefined("control", "addr") {
		cfg.Control.Addr = strings.TrimSpace(raw.Control.Addr)
	}
	if meta.IsDefined("control", "shutdown_timeout") {
		d, err := parseDuration(raw.Control.ShutdownTimeout)
		if err != nil {
			return errors.Wrap(err, "parse control.shutdown_timeout")
		}
		cfg.Control.ShutdownTimeout = d
	}
	if meta.IsDefined("control", "max_line") {
		cfg.Control.MaxLine = raw.Control.MaxLine
	}

	if meta.IsDefined("metrics", "addr") {
		cfg.Metrics.Addr = strings.TrimSpace(raw.Metrics.Addr)
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}
	return nil
}

func parseDuration(raw string) (time.Duration, error) {
	return time.ParseDuration(strings.TrimSpace(raw))
}

func commandByte(v int) (byte, error) {
	if v < 0 || v > 0xff {
		return 0, errors.Errorf("command %d out of byte range", v)
	}
	return byte(v), nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.SlotDuration <= 0 {
		return errors.Errorf("config: slot_duration must be positive, got %s", c.SlotDuration)
	}
	if c.BufferSize <= 0 {
		return errors.Errorf("config: buffer_size must be positive, got %d", c.BufferSize)
	}

	switch c.Actuator.Kind {
	case KindConsole:
	case KindSerial:
		if c.Actuator.Port == "" {
			return errors.New("config: serial actuator requires actuator.port")
		}
		if c.Actuator.Baud <= 0 {
			return errors.Errorf("config: actuator.baud must be positive, got %d", c.Actuator.Baud)
		}
		if c.Actuator.OnCommand == c.Actuator.OffCommand {
			return errors.New("config: actuator on and off commands must differ")
		}
	case KindGPIO:
		if c.Actuator.Pin < 0 {
			return errors.Errorf("config: actuator.pin must not be negative, got %d", c.Actuator.Pin)
		}
	case KindLED:
		// empty name selects the first discovered LED
	default:
		return errors.Errorf("config: unknown actuator kind %q", c.Actuator.Kind)
	}

	if c.Control.Addr == "" {
		return errors.New("config: control.addr is required")
	}
	if c.Control.ShutdownTimeout < 0 {
		return errors.Errorf("config: control.shutdown_timeout must not be negative, got %s", c.Control.ShutdownTimeout)
	}
	if c.Control.MaxLine <= 0 {
		return errors.Errorf("config: control.max_line must be positive, got %d", c.Control.MaxLine)
	}
	return nil
}
