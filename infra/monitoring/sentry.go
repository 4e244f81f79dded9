package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/gelflog/config"
	coremon "github.com/kilianp07/gelflog/core/monitoring"
)

// NewSentryMonitor initializes Sentry using the provided configuration and
// returns a Monitor implementation. An empty DSN yields a NopMonitor.
func NewSentryMonitor(cfg config.SentryConfig) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Release:          cfg.Release,
	})
	if err != nil {
		return nil, err
	}
	return &sentryMonitor{hub: sentry.CurrentHub()}, nil
}

type sentryMonitor struct {
	hub *sentry.Hub
}

// CaptureException sends err tagged with tags. Extracted errors carry their
// original stack text as extra data.
func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	s.hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		scope.SetLevel(sentryLevel(tags["level"]))
		if ex, ok := err.(*coremon.ExtractedError); ok && ex.Stack != "" {
			scope.SetExtra("stack", ex.Stack)
		}
		// Events group by facility and message.
		scope.SetFingerprint([]string{tags["facility"], err.Error()})
		s.hub.CaptureException(err)
	})
}

func sentryLevel(level string) sentry.Level {
	switch level {
	case "emergency", "alert", "critical":
		return sentry.LevelFatal
	case "error":
		return sentry.LevelError
	case "warning":
		return sentry.LevelWarning
	case "debug":
		return sentry.LevelDebug
	default:
		return sentry.LevelInfo
	}
}

func (s *sentryMonitor) Flush(timeout time.Duration) { s.hub.Flush(timeout) }
