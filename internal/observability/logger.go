package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide structured logger. JSON output always;
// debug level only outside prod-like environments.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" || env == "test" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler)
}
