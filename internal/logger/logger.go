// Package logger provides JSON structured logging using zerolog
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var globalLogger zerolog.Logger

// Config selects level and destination of the process logger
type Config struct {
	Level      string `json:"level" yaml:"level"`
	Debug      bool   `json:"debug" yaml:"debug"`
	Output     string `json:"output" yaml:"output"`
	TimeFormat string `json:"time_format" yaml:"time_format"`
	// Console switches to human readable output, used by the CLI
	Console bool `json:"console" yaml:"console"`
}

func init() {
	globalLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.TimeFieldFormat = time.RFC3339
}

// Init replaces the process logger. LOG_LEVEL overrides config.Level.
func Init(config Config) error {
	return InitWithWriter(config, nil)
}

// InitWithWriter is Init with an explicit destination, used by tests
func InitWithWriter(config Config, output io.Writer) error {
	if output == nil {
		output = os.Stderr
		if config.Output == "stdout" {
			output = os.Stdout
		}
	}
	if config.Console {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}
	}

	if env := strings.TrimSpace(os.Getenv("LOG_LEVEL")); env != "" {
		config.Level = env
	}

	level := zerolog.InfoLevel
	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(strings.ToLower(config.Level))
		if err != nil {
			return err
		}
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	globalLogger = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	log.Logger = globalLogger

	return nil
}

func GetLogger() zerolog.Logger {
	return globalLogger
}

func Debug() *zerolog.Event {
	return globalLogger.Debug()
}

func Info() *zerolog.Event {
	return globalLogger.Info()
}

func Warn() *zerolog.Event {
	return globalLogger.Warn()
}

func Error() *zerolog.Event {
	return globalLogger.Error()
}

// WithComponent returns a child logger tagged with component
func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}
