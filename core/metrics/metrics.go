package metrics

import (
	"time"

	"github.com/kilianp07/gelflog/core/model"
)

// EntryEvent describes one log entry handed to the collector transport.
type EntryEvent struct {
	Level       model.Level
	Facility    string
	Environment string
	Errors      int
	HasExtra    bool
	// EmitErr is the transport error, nil when the emit succeeded.
	EmitErr  error
	Duration time.Duration
	Time     time.Time
}

// EntrySink records emitted log entries for observability purposes.
type EntrySink interface {
	RecordEntry(ev EntryEvent) error
}

// NopSink implements EntrySink with a no-op.
type NopSink struct{}

func (NopSink) RecordEntry(EntryEvent) error { return nil }

// Close releases the resources held by s, if any.
func Close(s EntrySink) {
	if c, ok := s.(interface{ Close() }); ok {
		c.Close()
	}
}
