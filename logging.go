package authgate

import (
	"log/slog"
	"os"
)

// NewLogger returns a JSON structured logger suitable for production.
// Environments "local" and "dev" lower the level to debug so rejection
// reasons show up during development.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "local" || env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
