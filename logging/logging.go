// Package logging sets up the session log. The terminal owns stdout, so log
// records only ever go to a file, and only when debug logging is enabled.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/marquee/constants"
)

// Options selects where and how much to log
type Options struct {
	// Enabled turns file logging on; otherwise Setup returns a no-op logger
	Enabled bool

	// Path is the log file; empty means <Dir>/marquee.log
	Path string

	// Dir holds the default log file; empty means ./logs
	Dir string

	// Level is a zerolog level name (trace, debug, info, warn, error)
	Level string
}

// Setup returns the session logger and the file backing it.
// The closer is nil when logging is disabled
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	if !opts.Enabled {
		return zerolog.Nop(), nil, nil
	}

	path := opts.Path
	if path == "" {
		dir := opts.Dir
		if dir == "" {
			dir = constants.LogDirName
		}
		path = filepath.Join(dir, constants.LogFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}

	if err := rotate(path, time.Now()); err != nil {
		return zerolog.Nop(), nil, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        f,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()

	return logger, f, nil
}

// ParseLevel maps a level name to zerolog, defaulting to info
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// RotatedPath names a rotated log after the moment it was set aside
func RotatedPath(path string, at time.Time) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s.%s%s", base, at.Format("20060102_150405"), ext)
}

// rotate moves an oversized log out of the way
func rotate(path string, now time.Time) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() <= constants.MaxLogSize {
		return nil
	}
	if err := os.Rename(path, RotatedPath(path, now)); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}
