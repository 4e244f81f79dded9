package transport

import "github.com/kilianp07/gelflog/core/model"

// Client forwards structured payloads to a remote log collector. Delivery,
// framing and retries are owned by the implementation.
type Client interface {
	// SetConfig prepares the client for emitting. It is called once before
	// any Emit.
	SetConfig(opts Options) error

	// Emit sends one entry. Errors are returned to the caller untouched.
	Emit(level model.Level, message string, payload model.Payload) error

	// Close releases the underlying connection.
	Close() error
}

// Options mirrors the setConfig call of GELF client libraries.
type Options struct {
	// Fields are merged into every emitted entry before the payload.
	Fields         map[string]any
	AdapterName    string
	AdapterOptions AdapterOptions
}

// AdapterOptions locates the collector input.
type AdapterOptions struct {
	Host string
	Port int
}
