package cli

import (
	"io"
	"log/slog"
)

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Local (default): text at ERROR, so everyday commands print only results
// and real storage failures.
// Development (dev): human-readable text output at DEBUG level.
// Staging / production: machine-readable JSON.
//
// Logs go to w (stderr in practice); stdout is reserved for command output.
func setupLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case "dev":
		return slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "local" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{
				Level: slog.LevelError,
			}),
		)
	}
}
