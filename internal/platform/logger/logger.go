package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Handlers, services, and middleware all take
// a *slog.Logger so tests can swap in a silent one.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
