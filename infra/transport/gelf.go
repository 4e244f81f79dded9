package transport

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"gopkg.in/Graylog2/go-gelf.v2/gelf"

	"github.com/kilianp07/gelflog/core/model"
	coretransport "github.com/kilianp07/gelflog/core/transport"
)

// GELFConfig holds the optional settings of the udp and tcp adapters.
type GELFConfig struct {
	// Compression is gzip (default), zlib or none. UDP only.
	Compression string `json:"compression"`
	// Host overrides the source host reported in messages.
	Host string `json:"host"`
	// MaxReconnect and ReconnectDelayMS tune the TCP writer.
	MaxReconnect     int `json:"max_reconnect"`
	ReconnectDelayMS int `json:"reconnect_delay_ms"`
}

type gelfWriter interface {
	WriteMessage(m *gelf.Message) error
	Close() error
}

var (
	newUDPWriter = func(addr string, cfg GELFConfig) (gelfWriter, error) {
		w, err := gelf.NewUDPWriter(addr)
		if err != nil {
			return nil, err
		}
		switch cfg.Compression {
		case "", "gzip":
			w.CompressionType = gelf.CompressGzip
		case "zlib":
			w.CompressionType = gelf.CompressZlib
		case "none":
			w.CompressionType = gelf.CompressNone
		default:
			_ = w.Close()
			return nil, fmt.Errorf("unknown compression %q", cfg.Compression)
		}
		return w, nil
	}
	newTCPWriter = func(addr string, cfg GELFConfig) (gelfWriter, error) {
		w, err := gelf.NewTCPWriter(addr)
		if err != nil {
			return nil, err
		}
		if cfg.MaxReconnect > 0 {
			w.MaxReconnect = cfg.MaxReconnect
		}
		if cfg.ReconnectDelayMS > 0 {
			w.ReconnectDelay = time.Duration(cfg.ReconnectDelayMS) * time.Millisecond
		}
		return w, nil
	}
)

// GELFClient sends entries as GELF 1.1 messages over UDP or TCP.
type GELFClient struct {
	proto string
	cfg   GELFConfig

	mu     sync.RWMutex
	writer gelfWriter
	fields map[string]any
	host   string
	now    func() time.Time
}

// NewGELFClient returns an unconfigured client for proto ("udp" or "tcp").
func NewGELFClient(proto string, cfg GELFConfig) *GELFClient {
	return &GELFClient{proto: proto, cfg: cfg, now: time.Now}
}

// SetConfig dials the collector input.
func (c *GELFClient) SetConfig(opts coretransport.Options) error {
	addr := net.JoinHostPort(opts.AdapterOptions.Host, strconv.Itoa(opts.AdapterOptions.Port))
	var (
		w   gelfWriter
		err error
	)
	switch c.proto {
	case "udp":
		w, err = newUDPWriter(addr, c.cfg)
	case "tcp":
		w, err = newTCPWriter(addr, c.cfg)
	default:
		return fmt.Errorf("gelf: unsupported protocol %q", c.proto)
	}
	if err != nil {
		return fmt.Errorf("gelf %s %s: %w", c.proto, addr, err)
	}

	host := hostname(c.cfg.Host)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writer != nil {
		_ = c.writer.Close()
	}
	c.writer = w
	c.fields = opts.Fields
	c.host = host
	return nil
}

// Emit writes one GELF message. Payload fields become additional fields
// prefixed with an underscore.
func (c *GELFClient) Emit(level model.Level, message string, payload model.Payload) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.writer == nil {
		return coretransport.ErrNotConfigured
	}
	return c.writer.WriteMessage(c.message(level, message, payload))
}

func (c *GELFClient) message(level model.Level, message string, payload model.Payload) *gelf.Message {
	return gelfMessage(c.host, c.fields, c.now(), level, message, payload)
}

// gelfMessage builds a GELF 1.1 message. Static fields and payload fields
// become additional fields prefixed with an underscore.
func gelfMessage(host string, fields map[string]any, ts time.Time, level model.Level, message string, payload model.Payload) *gelf.Message {
	extra := make(map[string]any, len(fields)+6)
	for k, v := range fields {
		extra["_"+k] = v
	}
	for k, v := range payload.Fields() {
		extra["_"+k] = v
	}
	m := &gelf.Message{
		Version:  "1.1",
		Host:     host,
		Short:    message,
		TimeUnix: float64(ts.UnixNano()) / float64(time.Second),
		Level:    int32(level),
		Facility: payload.Facility,
		Extra:    extra,
	}
	// Level is omitempty in gelf.Message and collectors default a missing
	// level to alert.
	if level == model.LevelEmergency {
		m.RawExtra = []byte(`{"level":0}`)
	}
	return m
}

func hostname(override string) string {
	if override != "" {
		return override
	}
	h, _ := os.Hostname()
	return h
}

// Close closes the underlying connection.
func (c *GELFClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writer == nil {
		return nil
	}
	err := c.writer.Close()
	c.writer = nil
	return err
}
