// Package infra contains the adapters behind the core interfaces: collector
// transports (GELF, fluent, MQTT, AMQP), metrics sinks (Prometheus,
// InfluxDB), the Sentry monitor and the zerolog based diagnostic logger.
package infra
