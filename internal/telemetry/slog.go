package telemetry

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/freqradio/freqradio/internal/config"
)

// SetupLogger installs the process-wide slog logger from the logging section
// of the radio backend configuration and emits one startup record naming the
// service, so aggregated pipelines show which stream belongs to which process.
//
// format "json" selects the JSON handler for production ingestion; anything
// else falls back to the text handler for local runs. Levels accept the usual
// debug/info/warn/error spellings and default to info. Debug level also turns
// on source locations, which is too noisy for anything but debugging.
func SetupLogger(cfg config.LoggingConfig) {
	slog.SetDefault(newLogger(os.Stdout, cfg))
	slog.Info("logging configured",
		"service", "freqradio",
		"format", cfg.Format,
		"level", parseLogLevel(cfg.Level).String(),
	)
}

func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	lvl := parseLogLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
