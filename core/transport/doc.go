// Package transport defines the boundary between the logging facade and the
// collector client libraries. Implementations live in infra/transport.
package transport
