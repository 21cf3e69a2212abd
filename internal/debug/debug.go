package debug

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// GetLogger returns a singleton slog logger writing to a debug file in the
// temp directory. If the file cannot be opened, logging is discarded.
func GetLogger() *slog.Logger {
	once.Do(func() {
		path := filepath.Join(os.TempDir(), "souschef-debug.log")
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
			return
		}
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	})
	return logger
}
