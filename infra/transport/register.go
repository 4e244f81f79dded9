package transport

import (
	"github.com/kilianp07/gelflog/core/factory"
	coretransport "github.com/kilianp07/gelflog/core/transport"
)

// init registers the built-in collector adapters.
func init() {
	for _, proto := range []string{"udp", "tcp"} {
		proto := proto
		_ = coretransport.RegisterAdapter(proto, func(conf map[string]any) (coretransport.Client, error) {
			var c GELFConfig
			if err := factory.Decode(conf, &c); err != nil {
				return nil, err
			}
			return NewGELFClient(proto, c), nil
		})
	}

	_ = coretransport.RegisterAdapter("fluent", func(conf map[string]any) (coretransport.Client, error) {
		var c FluentConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewFluentClient(c), nil
	})

	_ = coretransport.RegisterAdapter("mqtt", func(conf map[string]any) (coretransport.Client, error) {
		var c MQTTConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewMQTTClient(c), nil
	})

	_ = coretransport.RegisterAdapter("amqp", func(conf map[string]any) (coretransport.Client, error) {
		var c AMQPConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewAMQPClient(c), nil
	})

	_ = coretransport.RegisterAdapter("nop", func(map[string]any) (coretransport.Client, error) {
		return NopClient{}, nil
	})
}
