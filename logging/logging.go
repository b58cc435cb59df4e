// Package logging builds the zerolog logger described by config.Config.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bitfsorg/coveredcall-go/config"
)

// New returns a logger writing to cfg.LogFile as JSON, or to stderr in
// console format when no file is set. The returned closer releases the file.
func New(cfg config.Config, app string) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)
	if cfg.LogFile == "" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0700); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("logging: create directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("logging: open %s: %w", cfg.LogFile, err)
		}
		out, closer = f, f
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Str("app", app).Logger()
	return logger, closer, nil
}

// ParseLevel maps a config log level to a zerolog level.
func ParseLevel(raw string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("%w: %q", config.ErrInvalidLogLevel, raw)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
