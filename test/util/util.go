// Package util provides helpers shared by the container based tests.
//
// StartMosquitto runs a disposable Mosquitto broker, Broker.Subscribe
// collects what the mqtt adapter publishes, and WaitForMetric polls a
// Prometheus endpoint until a series shows up.
package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	MosquittoReadyTimeout = 5 * time.Second
	MetricTimeout         = 5 * time.Second

	pollInterval = 50 * time.Millisecond
	mqttTimeout  = 5 * time.Second
)

const mosquittoConf = `listener 1883
allow_anonymous true
persistence false
log_dest stdout
log_type error
log_type warning
connection_messages true
`

// Broker is a running Mosquitto container.
type Broker struct {
	// URL is the tcp://host:port address of the listener.
	URL string

	cont tc.Container
	dir  string
}

// StartMosquitto starts an anonymous Mosquitto 2 broker and waits until it
// accepts MQTT connections.
func StartMosquitto(ctx context.Context) (*Broker, error) {
	dir, err := os.MkdirTemp("", "gelflog-mosq")
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "mosquitto.conf")
	if err := os.WriteFile(path, []byte(mosquittoConf), 0o644); err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "eclipse-mosquitto:2.0",
			ExposedPorts: []string{"1883/tcp"},
			WaitingFor:   wait.ForListeningPort("1883/tcp"),
			Files: []tc.ContainerFile{{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0o644,
			}},
		},
		Started: true,
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}
	b := &Broker{cont: cont, dir: dir}

	host, err := cont.Host(ctx)
	if err != nil {
		b.Close()
		return nil, err
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		b.Close()
		return nil, err
	}
	b.URL = fmt.Sprintf("tcp://%s:%s", host, port.Port())

	readyCtx, cancel := context.WithTimeout(ctx, MosquittoReadyTimeout)
	defer cancel()
	if err := waitForMQTTReady(readyCtx, b.URL); err != nil {
		b.Close()
		return nil, fmt.Errorf("mosquitto not ready: %w", err)
	}
	return b, nil
}

// Close terminates the container and removes its configuration.
func (b *Broker) Close() {
	_ = b.cont.Terminate(context.Background())
	_ = os.RemoveAll(b.dir)
}

// Subscribe delivers the payload of every message matching filter on the
// returned channel. The stop function disconnects the subscriber.
func (b *Broker) Subscribe(clientID, filter string) (<-chan []byte, func(), error) {
	cli := paho.NewClient(paho.NewClientOptions().AddBroker(b.URL).SetClientID(clientID))
	if err := await(cli.Connect()); err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	msgs := make(chan []byte, 16)
	handler := func(_ paho.Client, m paho.Message) {
		select {
		case msgs <- m.Payload():
		default:
		}
	}
	if err := await(cli.Subscribe(filter, 1, handler)); err != nil {
		cli.Disconnect(100)
		return nil, nil, fmt.Errorf("subscribe %s: %w", filter, err)
	}
	return msgs, func() { cli.Disconnect(100) }, nil
}

func await(t paho.Token) error {
	if !t.WaitTimeout(mqttTimeout) {
		return fmt.Errorf("timed out after %s", mqttTimeout)
	}
	return t.Error()
}

func waitForMQTTReady(ctx context.Context, broker string) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("gelflog-probe")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		cli := paho.NewClient(opts)
		if err := await(cli.Connect()); err == nil {
			cli.Disconnect(100)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// WaitForMetric polls metricsURL until its body contains substr or ctx is
// done.
func WaitForMetric(ctx context.Context, metricsURL, substr string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		body, err := fetch(ctx, metricsURL)
		if err == nil && strings.Contains(body, substr) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("metric %q not found: %w", substr, ctx.Err())
		case <-ticker.C:
		}
	}
}

func fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return string(b), err
}
