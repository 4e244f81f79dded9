package transport

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/gelflog/core/model"
	coretransport "github.com/kilianp07/gelflog/core/transport"
	"github.com/kilianp07/gelflog/infra/logger"
)

// MQTTConfig defines the connection parameters of the mqtt adapter.
type MQTTConfig struct {
	// Broker overrides the tcp://host:port URL derived from the adapter
	// options.
	Broker     string      `json:"broker"`
	ClientID   string      `json:"client_id"`
	Username   string      `json:"username"`
	Password   string      `json:"password"`
	Topic      string      `json:"topic"`
	QoS        byte        `json:"qos"`
	Retain     bool        `json:"retain"`
	UseTLS     bool        `json:"use_tls"`
	ClientCert string      `json:"client_cert"`
	ClientKey  string      `json:"client_key"`
	CABundle   string      `json:"ca_bundle"`
	TimeoutMS  int         `json:"timeout_ms"`
	TLSConfig  *tls.Config `json:"-"`
}

const (
	defaultTopic       = "logs"
	defaultMQTTTimeout = 5 * time.Second
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// MQTTClient publishes entries as JSON to <topic>/<level>.
type MQTTClient struct {
	cfg     MQTTConfig
	timeout time.Duration
	logger  logger.Logger

	mu     sync.RWMutex
	cli    pahoClient
	fields map[string]any
}

// NewMQTTClient returns an unconfigured MQTT client.
func NewMQTTClient(cfg MQTTConfig) *MQTTClient {
	if cfg.Topic == "" {
		cfg.Topic = defaultTopic
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "gelflog-" + uuid.NewString()
	}
	timeout := defaultMQTTTimeout
	if cfg.TimeoutMS > 0 {
		timeout = msDuration(cfg.TimeoutMS)
	}
	return &MQTTClient{cfg: cfg, timeout: timeout, logger: logger.New("mqtt_transport")}
}

// SetConfig connects to the broker.
func (c *MQTTClient) SetConfig(opts coretransport.Options) error {
	cfg := c.cfg
	if cfg.Broker == "" {
		cfg.Broker = fmt.Sprintf("tcp://%s:%d", opts.AdapterOptions.Host, opts.AdapterOptions.Port)
	}
	popts, err := NewClientOptions(cfg)
	if err != nil {
		return err
	}
	popts.OnConnect = func(paho.Client) {
		c.logger.Infof("MQTT connected to %s", cfg.Broker)
	}
	popts.OnConnectionLost = func(_ paho.Client, err error) {
		c.logger.Errorf("connection lost: %v", err)
	}
	popts.OnReconnecting = func(paho.Client, *paho.ClientOptions) {
		c.logger.Warnf("reconnecting to MQTT broker")
	}

	cli := newMQTTClient(popts)
	if err := wait(cli.Connect(), c.timeout); err != nil {
		return fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cli != nil {
		c.cli.Disconnect(250)
	}
	c.cli = cli
	c.fields = opts.Fields
	return nil
}

// NewClientOptions builds paho client options from cfg.
func NewClientOptions(cfg MQTTConfig) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c MQTTConfig) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// Emit publishes one entry and waits for the broker to accept it.
func (c *MQTTClient) Emit(level model.Level, message string, payload model.Payload) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cli == nil {
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
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	topic := c.cfg.Topic + "/" + level.String()
	if err := wait(c.cli.Publish(topic, c.cfg.QoS, c.cfg.Retain, body), c.timeout); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (c *MQTTClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cli != nil && c.cli.IsConnected() {
		c.cli.Disconnect(250)
	}
	c.cli = nil
	return nil
}

func wait(t paho.Token, timeout time.Duration) error {
	if !t.WaitTimeout(timeout) {
		return fmt.Errorf("timed out after %s", timeout)
	}
	return t.Error()
}
