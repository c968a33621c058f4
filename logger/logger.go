package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/Prince5598/Cloud-Storage/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger from the log section.
func Setup(cfg config.LogConfig) {
	SetOutput(os.Stderr, cfg.Format)
	SetLevel(cfg.Level)
}

func SetOutput(w io.Writer, format string) {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		zerolog.TimeFieldFormat = time.RFC3339
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}

func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

func IsDebugEnabled() bool {
	return zerolog.GlobalLevel() <= zerolog.DebugLevel
}
