package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text logger. Pass debug=true to get
// per-request scraper logging, it is very noisy.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
