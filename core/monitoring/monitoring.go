package monitoring

import "time"

// Monitor reports errors extracted from log entries to an error tracker.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

// NopMonitor drops every event.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Flush(time.Duration)                       {}

// ExtractedError is an error rebuilt from a log argument. It keeps the stack
// text captured at classification time.
type ExtractedError struct {
	Message string
	Stack   string
}

func (e *ExtractedError) Error() string { return e.Message }
