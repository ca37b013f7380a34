package internal

import (
	"io"
	"log/slog"
	"time"
)

// ParseLogLevel maps a config string to a slog level. Unknown values
// fall back to Info so a typo in LOG_LEVEL never silences the server.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		slog.Default().Warn("Invalid log level, using info", slog.String("value", level))
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger. Production emits JSON with
// RFC3339Nano timestamps for the log pipeline; everything else gets
// human-readable text output.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLogLevel(level)}

	if env == "prod" {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339Nano))
			}
			return a
		}
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
