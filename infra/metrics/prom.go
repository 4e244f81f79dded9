package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/gelflog/core/metrics"
)

// PromSink records log entries in Prometheus metrics.
type PromSink struct {
	entries  *prometheus.CounterVec
	errors   *prometheus.CounterVec
	failures *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewPromSink registers entry metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := []string{"level", "facility", "environment"}
	entries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gelflog_entries_total",
		Help: "Log entries handed to the collector transport",
	}, append(labels, "has_extra"))
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gelflog_extracted_errors_total",
		Help: "Errors extracted from log arguments",
	}, labels)
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gelflog_emit_failures_total",
		Help: "Log entries the transport failed to emit",
	}, labels)
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gelflog_emit_duration_seconds",
		Help:    "Time spent in the transport emit call",
		Buckets: prometheus.DefBuckets,
	}, []string{"level"})

	var err error
	if entries, err = register(reg, entries); err != nil {
		return nil, err
	}
	if errs, err = register(reg, errs); err != nil {
		return nil, err
	}
	if failures, err = register(reg, failures); err != nil {
		return nil, err
	}
	if latency, err = register(reg, latency); err != nil {
		return nil, err
	}
	return &PromSink{entries: entries, errors: errs, failures: failures, latency: latency}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(C), nil
		}
		return c, err
	}
	return c, nil
}

// RecordEntry updates the counters for ev.
func (s *PromSink) RecordEntry(ev coremetrics.EntryEvent) error {
	level := ev.Level.String()
	s.entries.WithLabelValues(level, ev.Facility, ev.Environment, strconv.FormatBool(ev.HasExtra)).Inc()
	if ev.Errors > 0 {
		s.errors.WithLabelValues(level, ev.Facility, ev.Environment).Add(float64(ev.Errors))
	}
	if ev.EmitErr != nil {
		s.failures.WithLabelValues(level, ev.Facility, ev.Environment).Inc()
	}
	s.latency.WithLabelValues(level).Observe(ev.Duration.Seconds())
	return nil
}
