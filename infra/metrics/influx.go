package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/gelflog/core/metrics"
	"github.com/kilianp07/gelflog/infra/logger"
)

// InfluxSink writes one point per log entry to an InfluxDB bucket.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.EntrySink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordEntry writes ev as a log_entry point.
func (s *InfluxSink) RecordEntry(ev coremetrics.EntryEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, entryPoint(ev))
}

func entryPoint(ev coremetrics.EntryEvent) *write.Point {
	return write.NewPointWithMeasurement("log_entry").
		AddTag("level", ev.Level.String()).
		AddTag("facility", ev.Facility).
		AddTag("environment", ev.Environment).
		AddTag("emitted", strconv.FormatBool(ev.EmitErr == nil)).
		AddField("errors", ev.Errors).
		AddField("has_extra", ev.HasExtra).
		AddField("duration_ms", float64(ev.Duration.Microseconds())/1000).
		SetTime(ev.Time)
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() { s.client.Close() }
