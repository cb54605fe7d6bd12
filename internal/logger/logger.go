package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
)

// Component represents the logging component
type Component string

const (
	ComponentApp      Component = "app"
	ComponentDownload Component = "download"
	ComponentBackend  Component = "backend"
	ComponentRemux    Component = "remux"
	ComponentConfig   Component = "config"
)

// ComponentField is the key carrying the component name.
const ComponentField = "component"

// Format represents the log output format
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// Config holds logger configuration
type Config struct {
	Level     zerolog.Level
	Format    Format
	Output    io.Writer
	NoColor   bool
	Timestamp bool
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:  zerolog.WarnLevel,
		Format: FormatText,
		Output: nil, // stderr
	}
}

// New creates a root logger from config. A nil config means defaults.
func New(config *Config) zerolog.Logger {
	if config == nil {
		config = DefaultConfig()
	}

	out := config.Output
	if out == nil {
		if config.NoColor {
			out = os.Stderr
		} else {
			out = colorable.NewColorableStderr()
		}
	}

	if config.Format == FormatText {
		cw := zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    config.NoColor,
			TimeFormat: time.TimeOnly,
		}
		if !config.Timestamp {
			cw.PartsExclude = []string{zerolog.TimestampFieldName}
		}
		out = cw
	}

	ctx := zerolog.New(out).Level(config.Level).With()
	if config.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

// WithComponent returns a child logger tagged with component.
func WithComponent(l zerolog.Logger, component Component) zerolog.Logger {
	return l.With().Str(ComponentField, string(component)).Logger()
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// ParseLevel parses a level name such as "debug" or "WARNING".
func ParseLevel(s string) (zerolog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		name = "warn"
	}
	if name == "" {
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.WarnLevel, errors.Newf("unknown log level: %s", s)
	}
	return level, nil
}

// ParseFormat parses "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "console":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, errors.Newf("unknown log format: %s", s)
	}
}

// StdWriter adapts l for the standard library log package so chatter from
// dependencies that log there is recorded at level.
func StdWriter(l zerolog.Logger, level zerolog.Level) io.Writer {
	return stdWriter{l: l, level: level}
}

type stdWriter struct {
	l     zerolog.Logger
	level zerolog.Level
}

func (w stdWriter) Write(p []byte) (int, error) {
	w.l.WithLevel(w.level).Msg(strings.TrimRight(string(p), "\r\n"))
	return len(p), nil
}
