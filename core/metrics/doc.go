// Package metrics defines the sink interface used to observe log entries as
// they leave the facade. Sinks like PromSink and InfluxSink live in
// infra/metrics and register themselves by name; NewSink returns a MultiSink
// automatically when several sinks are configured.
package metrics
