package transport

import (
	"fmt"
	"sync"

	"github.com/fluent/fluent-logger-golang/fluent"

	"github.com/kilianp07/gelflog/core/model"
	coretransport "github.com/kilianp07/gelflog/core/transport"
)

// FluentConfig holds the optional settings of the fluent adapter.
type FluentConfig struct {
	// TagPrefix is prepended to the level tag. Empty uses the facility.
	TagPrefix string `json:"tag_prefix"`
	TimeoutMS int    `json:"timeout_ms"`
}

type fluentPoster interface {
	Post(tag string, message interface{}) error
	Close() error
}

var newFluent = func(cfg fluent.Config) (fluentPoster, error) {
	return fluent.New(cfg)
}

// FluentClient forwards entries to a Fluentd or Fluent Bit forward input.
type FluentClient struct {
	cfg FluentConfig

	mu     sync.RWMutex
	client fluentPoster
	fields map[string]any
}

// NewFluentClient returns an unconfigured fluent client.
func NewFluentClient(cfg FluentConfig) *FluentClient {
	return &FluentClient{cfg: cfg}
}

// SetConfig creates the fluent logger. No connection is made until the
// first post.
func (c *FluentClient) SetConfig(opts coretransport.Options) error {
	fc := fluent.Config{
		FluentHost: opts.AdapterOptions.Host,
		FluentPort: opts.AdapterOptions.Port,
		TagPrefix:  c.cfg.TagPrefix,
	}
	if c.cfg.TimeoutMS > 0 {
		fc.Timeout = msDuration(c.cfg.TimeoutMS)
	}
	cli, err := newFluent(fc)
	if err != nil {
		return fmt.Errorf("fluent: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		_ = c.client.Close()
	}
	c.client = cli
	c.fields = opts.Fields
	return nil
}

// Emit posts the payload together with level and message.
func (c *FluentClient) Emit(level model.Level, message string, payload model.Payload) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.client == nil {
		return coretransport.ErrNotConfigured
	}
	data := make(map[string]any, len(c.fields)+8)
	for k, v := range c.fields {
		data[k] = v
	}
	for k, v := range payload.Fields() {
		data[k] = v
	}
	data["level"] = level.String()
	data["message"] = message

	tag := level.String()
	if c.cfg.TagPrefix == "" {
		tag = payload.Facility + "." + tag
	}
	return c.client.Post(tag, data)
}

// Close flushes and closes the fluent logger.
func (c *FluentClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}
