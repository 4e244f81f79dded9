// Package factory provides a generic registry used to build pluggable
// components (collector transports, metrics sinks) from configuration.
package factory
