package e2e

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/gelflog/config"
	"github.com/kilianp07/gelflog/core/factory"
	"github.com/kilianp07/gelflog/infra/metrics"
	"github.com/kilianp07/gelflog/logger"
	"github.com/kilianp07/gelflog/test/util"
)

// junitReport is a minimal representation of a JUnit XML report. The E2E
// suite writes such a report so CI systems can display the results.
type junitReport struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name    string  `xml:"name,attr"`
	Failure *string `xml:"failure,omitempty"`
	Time    float64 `xml:"time,attr"`
}

// writeJUnit writes the provided report to the given path.
func writeJUnit(path string, rep junitReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	return enc.Encode(rep)
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
}

func facadeConfig() config.Config {
	return config.Config{
		Server:      "127.0.0.1",
		InputPort:   12201,
		AppName:     "e2e",
		AppVersion:  "0.0.1",
		Environment: config.EnvStaging,
	}
}

const (
	influxOrg    = "e2e_org"
	influxBucket = "e2e_bucket"
	influxToken  = "e2e-token"
)

// startInflux starts an InfluxDB 2.7 container initialised with the e2e
// organisation, bucket and token and returns its base URL.
func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "e2e",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "e2e-password",
			"DOCKER_INFLUXDB_INIT_ORG":         influxOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      influxBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": influxToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	return cont, fmt.Sprintf("http://%s:%s", host, port.Port())
}

func Test_E2E_MQTTTransport(t *testing.T) {
	requireDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker, err := util.StartMosquitto(ctx)
	if err != nil {
		t.Skipf("unable to start mosquitto: %v", err)
	}
	defer broker.Close()

	received, stop, err := broker.Subscribe("e2e-sub", "e2e/#")
	require.NoError(t, err)
	defer stop()

	l, err := logger.New(facadeConfig(), logger.WithAdapter(factory.ModuleConfig{
		Type: "mqtt",
		Conf: map[string]any{"broker": broker.URL, "topic": "e2e", "qos": 1},
	}))
	require.NoError(t, err)
	defer l.Close()

	_, err = l.Error("payment failed", errors.New("card declined"), map[string]any{"order": 42})
	require.NoError(t, err)

	select {
	case body := <-received:
		var got map[string]any
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "payment failed", got["message"])
		assert.Equal(t, "error", got["level"])
		assert.Equal(t, "e2e", got["facility"])
		assert.Equal(t, "STAGING", got["environment"])
		assert.Equal(t, "card declined", got["error_message"])
		assert.Contains(t, got["extra_info"], `"order": 42`)
	case <-ctx.Done():
		t.Fatal("no message received from broker")
	}

	dir := t.TempDir()
	rep := junitReport{Name: "e2e", Tests: 1, Cases: []junitTestCase{{Name: "Test_E2E_MQTTTransport"}}}
	if err := writeJUnit(filepath.Join(dir, "e2e.xml"), rep); err != nil {
		t.Logf("write junit: %v", err)
	}
}

func Test_E2E_InfluxSink(t *testing.T) {
	requireDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cont, url := startInflux(ctx, t)
	defer cont.Terminate(ctx) //nolint:errcheck

	sink := metrics.NewInfluxSinkWithFallback(url, influxToken, influxOrg, influxBucket)
	_, isInflux := sink.(*metrics.InfluxSink)
	require.True(t, isInflux, "health check should pass")

	l, err := logger.New(facadeConfig(), logger.WithAdapter(factory.ModuleConfig{Type: "nop"}), logger.WithMetrics(sink))
	require.NoError(t, err)
	defer l.Close()
	_, err = l.Warning("disk almost full", errors.New("95%"))
	require.NoError(t, err)

	cli := NewInfluxClient(url, influxOrg, influxBucket, influxToken)
	defer cli.Close()
	count, err := cli.CountEntries(ctx, "warning")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func Test_E2E_PrometheusEndpoint(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = metrics.StartPromServer(ctx, addr) }()

	sink, err := metrics.NewPromSink()
	require.NoError(t, err)
	l, err := logger.New(facadeConfig(), logger.WithAdapter(factory.ModuleConfig{Type: "nop"}), logger.WithMetrics(sink))
	require.NoError(t, err)
	defer l.Close()
	_, err = l.Notice("served")
	require.NoError(t, err)

	waitCtx, waitCancel := context.WithTimeout(ctx, util.MetricTimeout)
	defer waitCancel()
	require.NoError(t, util.WaitForMetric(waitCtx, "http://"+addr+"/metrics",
		`gelflog_entries_total{environment="STAGING",facility="e2e",has_extra="false",level="notice"} 1`))
}
