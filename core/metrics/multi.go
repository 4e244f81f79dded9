package metrics

// MultiSink fans entry events out to multiple sinks.
type MultiSink struct {
	Sinks []EntrySink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...EntrySink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordEntry forwards the event to every sink and returns the first error
// encountered. Later sinks still receive the event.
func (m *MultiSink) RecordEntry(ev EntryEvent) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordEntry(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close releases every sink.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		Close(s)
	}
}
