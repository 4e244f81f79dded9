package config

import (
	"fmt"

	"github.com/kilianp07/gelflog/core/factory"
)

// TransportConfig selects the collector adapter and its adapter specific
// settings.
type TransportConfig struct {
	// Adapter is udp, tcp, fluent, mqtt, amqp or nop.
	Adapter string         `json:"adapter"`
	Conf    map[string]any `json:"conf"`
}

// SetDefaults applies the GELF UDP adapter when none is configured.
func (c *TransportConfig) SetDefaults() {
	if c.Adapter == "" {
		c.Adapter = "udp"
	}
}

// Validate checks mandatory fields.
func (c TransportConfig) Validate() error {
	if c.Adapter == "" {
		return fmt.Errorf("transport: adapter is required")
	}
	return nil
}

// Module returns the registry entry describing the adapter.
func (c TransportConfig) Module() factory.ModuleConfig {
	return factory.ModuleConfig{Type: c.Adapter, Conf: c.Conf}
}
