// Package logging, uygulama genelinde kullanılan zerolog logger'ını kurar.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config: logger ayarları
type Config struct {
	// Level: debug, info, warn, error
	Level string

	// Format: json, console veya auto (terminal ise console)
	Format string

	// Output: nil ise stderr
	Output io.Writer
}

var current atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	current.Store(&l)
}

// L: paket seviyesindeki varsayılan logger
func L() *zerolog.Logger {
	return current.Load()
}

// Configure: varsayılan logger'ı verilen ayarlarla yeniden kurar
func Configure(cfg Config) zerolog.Logger {
	l := New(cfg)
	current.Store(&l)
	return l
}

// New: ayarlara göre yeni bir logger oluşturur
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	format := strings.ToLower(cfg.Format)
	if format == "" || format == "auto" {
		format = "json"
		if f, ok := out.(*os.File); ok {
			if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
				format = "console"
			}
		}
	}
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: os.Getenv("NO_COLOR") != ""}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}
