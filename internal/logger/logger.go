// Package logger builds the zerolog logger used for diagnostics. Diagnostics
// always go to standard error so they never mix with report output.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"

	DefaultLevel = "error"
)

type Config struct {
	Level  string
	Format string
	Output io.Writer
}

func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == nil {
		c.Output = os.Stderr
	}
}

// ParseLevel accepts zerolog level names plus "warning", in any case.
// Unknown names fall back to the error level.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.ErrorLevel
	}
	return level
}

func New(cfg Config) zerolog.Logger {
	cfg.ApplyDefaults()

	var zl zerolog.Logger
	if strings.ToLower(cfg.Format) == FormatJSON {
		zl = zerolog.New(cfg.Output)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: "15:04:05",
			NoColor:    true,
		})
	}

	return zl.Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
}
