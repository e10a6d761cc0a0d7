package internal

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// ServiceName tags every log line so storefront logs can be told apart from
// other processes writing to the same sink.
const ServiceName = "plushies"

// NewLogger returns JSON output in prod and text elsewhere. An unknown level
// falls back to info and is reported on the returned logger.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	l := new(slog.LevelVar)
	lvl, ok := parseLevel(level)
	l.Set(lvl)

	opts := &slog.HandlerOptions{Level: l}
	var h slog.Handler
	if env == "prod" {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		}
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(h).With(slog.String("service", ServiceName))
	if !ok {
		logger.Warn("Invalid log level, using info", slog.String("value", level))
	}
	return logger
}

// parseLevel accepts the slog level names in any case. An empty level is
// info without a warning.
func parseLevel(level string) (slog.Level, bool) {
	level = strings.TrimSpace(level)
	if level == "" {
		return slog.LevelInfo, true
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, false
	}
	return lvl, true
}
