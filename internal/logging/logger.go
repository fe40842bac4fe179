package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/wire"
	"github.com/trebuchet-org/proxyforge/internal/domain/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger based on runtime configuration
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	return newLogger(os.Stderr, cfg.Debug, os.Getenv("PROXYFORGE_LOG_LEVEL"))
}

func newLogger(w io.Writer, debug bool, levelName string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(levelName),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Time is noise in CLI output
			if a.Key == slog.TimeKey && !debug {
				return slog.Attr{}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}

	// --debug wins over the environment
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// shortPath returns a shortened version of the file path
func shortPath(file string) string {
	if idx := strings.Index(file, "proxyforge/"); idx != -1 {
		return file[idx+len("proxyforge/"):]
	}
	parts := strings.Split(file, "/")
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], "/")
	}
	return file
}
