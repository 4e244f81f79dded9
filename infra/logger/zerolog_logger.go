package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger writing to stderr so diagnostics
// never mix with console log blocks on stdout. All logs include the
// component field.
func NewZerologLogger(component string) Logger {
	return NewZerologLoggerTo(os.Stderr, component)
}

// NewZerologLoggerTo is NewZerologLogger with an explicit writer.
func NewZerologLoggerTo(w io.Writer, component string) Logger {
	mu.RLock()
	useConsole := console
	mu.RUnlock()
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		useConsole = true
	}
	if useConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

func (l *ZerologLogger) Errorw(msg string, err error, fields map[string]any) {
	l.log.Error().Err(err).Fields(fields).Msg(msg)
}
