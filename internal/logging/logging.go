// Package logging builds the CLI's zerolog logger and adapts it to the
// key-value Logger used by the transmitter and control plane.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "FLASHTX_LOG_LEVEL"
	EnvLogTimestamp = "FLASHTX_LOG_TIMESTAMP"
	EnvLogNoColor   = "FLASHTX_LOG_NOCOLOR"
)

// Config controls the console output.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
}

// DefaultConfig logs at info level with timestamps and colour.
func DefaultConfig() Config {
	return Config{Level: zerolog.InfoLevel, Timestamp: true}
}

// New returns a console logger writing to out. Environment variables
// override cfg.
func New(out io.Writer, app string, cfg Config) zerolog.Logger {
	applyEnvOverrides(&cfg)

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    cfg.NoColor,
	}
	if !cfg.Timestamp {
		output.PartsExclude = []string{zerolog.TimestampFieldName}
	}

	ctx := zerolog.New(output).Level(cfg.Level).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if app != "" {
		ctx = ctx.Str("app", app)
	}
	return ctx.Logger()
}

func applyEnvOverrides(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

// ParseLevel maps a level name to a zerolog level. ok is false for empty or
// unknown names.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// Adapter exposes a zerolog.Logger through Debug/Info/Warn/Error calls
// taking alternating key-value pairs.
type Adapter struct {
	zl zerolog.Logger
}

// Adapt wraps zl.
func Adapt(zl zerolog.Logger) *Adapter {
	return &Adapter{zl: zl}
}

func (a *Adapter) Debug(msg string, args ...any) { emit(a.zl.Debug(), msg, args) }
func (a *Adapter) Info(msg string, args ...any)  { emit(a.zl.Info(), msg, args) }
func (a *Adapter) Warn(msg string, args ...any)  { emit(a.zl.Warn(), msg, args) }
func (a *Adapter) Error(msg string, args ...any) { emit(a.zl.Error(), msg, args) }

func emit(ev *zerolog.Event, msg string, args []any) {
	if ev == nil {
		return
	}
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = "!BADKEY"
		}
		if i+1 >= len(args) {
			ev = ev.Interface(key, nil)
			break
		}
		switch v := args[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case time.Duration:
			ev = ev.Str(key, v.String())
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}
