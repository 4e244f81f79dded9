package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gelflog/core/factory"
	coretransport "github.com/kilianp07/gelflog/core/transport"
)

func TestBuiltinAdaptersRegistered(t *testing.T) {
	assert.Equal(t, []string{"amqp", "fluent", "mqtt", "nop", "tcp", "udp"}, coretransport.Adapters())

	c, err := coretransport.New(factory.ModuleConfig{Type: "udp", Conf: map[string]any{"compression": "none"}})
	require.NoError(t, err)
	g, ok := c.(*GELFClient)
	require.True(t, ok)
	assert.Equal(t, "udp", g.proto)
	assert.Equal(t, "none", g.cfg.Compression)

	c, err = coretransport.New(factory.ModuleConfig{Type: "mqtt", Conf: map[string]any{"topic": "t", "qos": "1"}})
	require.NoError(t, err)
	m := c.(*MQTTClient)
	assert.Equal(t, "t", m.cfg.Topic)
	assert.Equal(t, byte(1), m.cfg.QoS)

	c, err = coretransport.New(factory.ModuleConfig{Type: "amqp", Conf: map[string]any{"routing_key": "graylog"}})
	require.NoError(t, err)
	a := c.(*AMQPClient)
	assert.Equal(t, "graylog", a.cfg.RoutingKey)
	assert.Equal(t, "log-messages", a.cfg.Exchange)

	_, err = coretransport.New(factory.ModuleConfig{Type: "carrier-pigeon"})
	assert.Error(t, err)
}
