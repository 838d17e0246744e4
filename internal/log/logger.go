package log

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var Logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}

	Logger = zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()

	log.Logger = Logger
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info starts an info-level event.
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn starts a warn-level event.
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error starts an error-level event.
func Error() *zerolog.Event {
	return Logger.Error()
}

// SetDebugMode switches the logger to debug level.
func SetDebugMode() {
	Logger = Logger.Level(zerolog.DebugLevel)
	log.Logger = Logger
}
