package logger

import (
	"time"

	"github.com/kilianp07/gelflog/core/factory"
	corelogger "github.com/kilianp07/gelflog/core/logger"
	"github.com/kilianp07/gelflog/core/metrics"
	"github.com/kilianp07/gelflog/core/monitoring"
	"github.com/kilianp07/gelflog/core/transport"
	"github.com/kilianp07/gelflog/logger/formatter"
)

// DefaultAdapter is used when neither WithTransport nor WithAdapter is given.
const DefaultAdapter = "udp"

type settings struct {
	client  transport.Client
	adapter factory.ModuleConfig
	fields  map[string]any
	console *formatter.Console
	now     func() time.Time
	sink    metrics.EntrySink
	monitor monitoring.Monitor
	diag    corelogger.Logger
}

// Option customises a Logger.
type Option func(*settings)

// WithTransport uses client instead of building one from the adapter
// registry.
func WithTransport(client transport.Client) Option {
	return func(s *settings) { s.client = client }
}

// WithAdapter selects a registered transport adapter and its settings.
func WithAdapter(cfg factory.ModuleConfig) Option {
	return func(s *settings) { s.adapter = cfg }
}

// WithFields sets static fields sent with every entry.
func WithFields(fields map[string]any) Option {
	return func(s *settings) { s.fields = fields }
}

// WithConsole overrides the console writers.
func WithConsole(c *formatter.Console) Option {
	return func(s *settings) { s.console = c }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithMetrics records every emitted entry in sink.
func WithMetrics(sink metrics.EntrySink) Option {
	return func(s *settings) { s.sink = sink }
}

// WithMonitor reports errors logged at error severity or above to m.
func WithMonitor(m monitoring.Monitor) Option {
	return func(s *settings) { s.monitor = m }
}

// WithDiagnostics sets the logger used for failures of the optional hooks.
func WithDiagnostics(l corelogger.Logger) Option {
	return func(s *settings) { s.diag = l }
}
