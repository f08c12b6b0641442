package app

import (
	"io"
	"log/slog"
)

// parseLevel maps a --log-level value onto a slog level. Unknown values fall
// back to info; NewConfig rejects them before a logger is built.
func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// newLogger builds an isolated logger for one run. The global default is
// left untouched so parallel runs in tests do not share handlers.
func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
