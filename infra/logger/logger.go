package logger

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/kilianp07/gelflog/config"
	corelogger "github.com/kilianp07/gelflog/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.Nop

var (
	mu      sync.RWMutex
	console bool
)

// Configure applies the diagnostic logging section globally. Loggers created
// afterwards use the new format.
func Configure(cfg config.LoggingConfig) error {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	mu.Lock()
	console = cfg.Format == "console"
	mu.Unlock()
	return nil
}

// New returns a Logger for the given component. Console output is used when
// configured or when APP_ENV is "dev".
func New(component string) Logger {
	return NewZerologLogger(component)
}
