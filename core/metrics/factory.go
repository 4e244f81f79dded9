package metrics

import "github.com/kilianp07/gelflog/core/factory"

var sinkRegistry = factory.NewRegistry[EntrySink]("metrics sink")

// RegisterSink adds a metrics sink factory identified by name.
func RegisterSink(name string, f factory.Factory[EntrySink]) error {
	return sinkRegistry.Register(name, f)
}

// NewSink creates an EntrySink from the provided configuration.
func NewSink(cfgs []factory.ModuleConfig) (EntrySink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]EntrySink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			NewMultiSink(sinks[:i]...).Close()
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
