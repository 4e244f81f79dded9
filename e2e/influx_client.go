package e2e

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxClient is a small query helper around the official InfluxDB v2
// client used to inspect what the influx metrics sink wrote.
type InfluxClient struct {
	bucket string
	client influxdb2.Client
	query  api.QueryAPI
}

// NewInfluxClient creates a new client for the given parameters. It assumes
// the server is already running and reachable.
func NewInfluxClient(url, org, bucket, token string) *InfluxClient {
	c := influxdb2.NewClient(url, token)
	return &InfluxClient{
		bucket: bucket,
		client: c,
		query:  c.QueryAPI(org),
	}
}

// CountEntries returns the number of log_entry rows recorded for level in
// the last hour.
func (c *InfluxClient) CountEntries(ctx context.Context, level string) (int, error) {
	flux := fmt.Sprintf(`from(bucket:%q)
  |> range(start: -1h)
  |> filter(fn: (r) => r._measurement == "log_entry" and r.level == %q and r._field == "errors")`, c.bucket, level)
	res, err := c.query.Query(ctx, flux)
	if err != nil {
		return 0, err
	}
	defer res.Close()
	count := 0
	for res.Next() {
		count++
	}
	return count, res.Err()
}

// Close releases the underlying client resources.
func (c *InfluxClient) Close() { c.client.Close() }
