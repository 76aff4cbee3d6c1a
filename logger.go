package flashtx

import "log/slog"

// Logger receives structured transmission events.
// *slog.Logger satisfies it, as does the zerolog adapter used by the CLI.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

func defaultLogger() Logger {
	return slog.Default()
}
