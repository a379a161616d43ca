// Package obslog configures the process-wide slog logger and provides
// module-scoped helpers, mirroring the teacher's pkg/log package.
package obslog

import (
	"log/slog"
	"os"
)

// Setup installs a text-handler slog logger at the given level as the
// process default. Valid levels: debug, info, warn, error.
func Setup(level string) {
	var lvl slog.Level

	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})))
}

// WithModule returns a logger scoped to the named module.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
