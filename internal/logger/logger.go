// ABOUTME: Structured logging setup using zerolog
// ABOUTME: Routes logs away from the terminal while the player UI owns it
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	Verbose bool   // debug level when set
	File    string // log file path; empty means stderr (or discard under the UI)
	Quiet   bool   // drop logs entirely when the UI owns the terminal and no file is set
}

// Init initializes the global zerolog logger. While the terminal UI is
// running, stderr would corrupt the screen, so logs either go to a file
// or get dropped.
func Init(cfg Config) error {
	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.TimeOnly

	var writer io.Writer
	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		writer = f
	case cfg.Quiet:
		writer = io.Discard
	default:
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.TimeOnly,
		}
	}

	logger := zerolog.New(writer).With().Timestamp().Logger()
	if cfg.Verbose {
		logger = logger.With().Caller().Logger()
	}

	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger

	return nil
}
