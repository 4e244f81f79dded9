package metrics

import (
	"github.com/kilianp07/gelflog/core/factory"
	coremetrics "github.com/kilianp07/gelflog/core/metrics"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterSink("nop", func(map[string]any) (coremetrics.EntrySink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.EntrySink, error) {
		return NewPromSink()
	})

	_ = coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.EntrySink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
