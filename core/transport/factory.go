package transport

import "github.com/kilianp07/gelflog/core/factory"

var adapterRegistry = factory.NewRegistry[Client]("transport")

// RegisterAdapter adds a transport factory identified by adapter name.
func RegisterAdapter(name string, f factory.Factory[Client]) error {
	return adapterRegistry.Register(name, f)
}

// New creates the transport named by cfg.Type. The returned client still
// needs SetConfig.
func New(cfg factory.ModuleConfig) (Client, error) {
	return adapterRegistry.Create(cfg)
}

// Adapters lists the registered adapter names.
func Adapters() []string { return adapterRegistry.Names() }
