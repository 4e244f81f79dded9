package logger

import (
	"fmt"
	"time"

	"github.com/kilianp07/gelflog/config"
	corelogger "github.com/kilianp07/gelflog/core/logger"
	"github.com/kilianp07/gelflog/core/metrics"
	"github.com/kilianp07/gelflog/core/model"
	"github.com/kilianp07/gelflog/core/monitoring"
	"github.com/kilianp07/gelflog/core/transport"
	_ "github.com/kilianp07/gelflog/infra/transport"
	"github.com/kilianp07/gelflog/logger/formatter"
)

const flushTimeout = 2 * time.Second

// Logger normalizes log calls into structured payloads and forwards them to
// a collector. It is safe for concurrent use when its transport is.
type Logger struct {
	cfg     config.Config
	client  transport.Client
	console *formatter.Console
	now     func() time.Time
	sink    metrics.EntrySink
	monitor monitoring.Monitor
	diag    corelogger.Logger
}

// NewFromOptions resolves raw options and builds a Logger. Invalid options
// fail with a *config.ConfigurationError.
func NewFromOptions(o config.Options, opts ...Option) (*Logger, error) {
	cfg, err := config.Resolve(o)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// New configures the transport for cfg and returns a ready Logger.
func New(cfg config.Config, opts ...Option) (*Logger, error) {
	s := settings{
		now:     time.Now,
		sink:    metrics.NopSink{},
		monitor: monitoring.NopMonitor{},
		diag:    corelogger.Nop{},
	}
	for _, o := range opts {
		o(&s)
	}
	if s.adapter.Type == "" {
		s.adapter.Type = DefaultAdapter
	}
	if s.fields == nil {
		s.fields = map[string]any{}
	}

	client := s.client
	if client == nil {
		c, err := transport.New(s.adapter)
		if err != nil {
			return nil, err
		}
		client = c
	}
	err := client.SetConfig(transport.Options{
		Fields:         s.fields,
		AdapterName:    s.adapter.Type,
		AdapterOptions: transport.AdapterOptions{Host: cfg.Server, Port: cfg.InputPort},
	})
	if err != nil {
		return nil, fmt.Errorf("configure %s transport: %w", s.adapter.Type, err)
	}

	l := &Logger{
		cfg:     cfg,
		client:  client,
		console: s.console,
		now:     s.now,
		sink:    s.sink,
		monitor: s.monitor,
		diag:    s.diag,
	}
	if cfg.ShowConsole && l.console == nil {
		l.console = formatter.NewConsole(nil, nil)
	}
	return l, nil
}

// Config returns the resolved configuration.
func (l *Logger) Config() config.Config { return l.cfg }

// Log classifies args, emits the payload at level and returns the composed
// response. Transport errors are returned as is, wrapped with the level.
func (l *Logger) Log(level model.Level, args ...any) (model.Response, error) {
	if !level.Valid() {
		return model.Response{}, fmt.Errorf("unknown level %d", level)
	}
	start := l.now()
	c := formatter.Classify(model.WrapAll(args))
	payload, err := formatter.BuildPayload(l.cfg, c)
	if err != nil {
		return model.Response{}, err
	}
	resp := model.Response{
		Payload:   payload,
		Timestamp: start.Format(model.TimestampLayout),
		Level:     level.String(),
		Message:   c.Message,
	}

	emitErr := l.client.Emit(level, c.Message, payload)
	l.record(level, c, emitErr, start)
	if emitErr != nil {
		return model.Response{}, fmt.Errorf("emit %s: %w", level, emitErr)
	}

	if l.cfg.ShowConsole {
		if err := l.console.Render(l.cfg, level, resp); err != nil {
			return model.Response{}, err
		}
	}
	if level.IsErrorStream() {
		l.capture(level, c.Stacks)
	}
	return resp, nil
}

func (l *Logger) record(level model.Level, c formatter.Classified, emitErr error, start time.Time) {
	ev := metrics.EntryEvent{
		Level:       level,
		Facility:    l.cfg.AppName,
		Environment: string(l.cfg.Environment),
		Errors:      len(c.ErrorMessages),
		HasExtra:    len(c.Extra) > 0,
		EmitErr:     emitErr,
		Duration:    l.now().Sub(start),
		Time:        start,
	}
	if err := l.sink.RecordEntry(ev); err != nil {
		l.diag.Errorw("record entry", err, map[string]any{"level": level.String()})
	}
}

func (l *Logger) capture(level model.Level, stacks []model.StackEntry) {
	tags := map[string]string{
		"level":       level.String(),
		"facility":    l.cfg.AppName,
		"environment": string(l.cfg.Environment),
	}
	for _, st := range stacks {
		l.monitor.CaptureException(&monitoring.ExtractedError{Message: st.Error, Stack: st.StackTrace}, tags)
	}
}

// Close flushes the monitor, releases the metrics sink and closes the
// transport.
func (l *Logger) Close() error {
	l.monitor.Flush(flushTimeout)
	metrics.Close(l.sink)
	return l.client.Close()
}

func (l *Logger) Emergency(args ...any) (model.Response, error) { return l.Log(model.LevelEmergency, args...) }
func (l *Logger) Alert(args ...any) (model.Response, error)     { return l.Log(model.LevelAlert, args...) }
func (l *Logger) Critical(args ...any) (model.Response, error)  { return l.Log(model.LevelCritical, args...) }
func (l *Logger) Error(args ...any) (model.Response, error)     { return l.Log(model.LevelError, args...) }
func (l *Logger) Warning(args ...any) (model.Response, error)   { return l.Log(model.LevelWarning, args...) }
func (l *Logger) Notice(args ...any) (model.Response, error)    { return l.Log(model.LevelNotice, args...) }
func (l *Logger) Info(args ...any) (model.Response, error)      { return l.Log(model.LevelInfo, args...) }
func (l *Logger) Debug(args ...any) (model.Response, error)     { return l.Log(model.LevelDebug, args...) }
