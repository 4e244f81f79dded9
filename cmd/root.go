package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gelflog/config"
	coremetrics "github.com/kilianp07/gelflog/core/metrics"
	infralogger "github.com/kilianp07/gelflog/infra/logger"
	_ "github.com/kilianp07/gelflog/infra/metrics"
	"github.com/kilianp07/gelflog/infra/monitoring"
	"github.com/kilianp07/gelflog/logger"
)

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "gelflog",
		Short:         "Send structured log entries to a Graylog collector",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml, json or toml)")
	path := func() string { return cfgPath }

	root.AddCommand(
		newEmitCmd(path),
		newPipeCmd(path),
		newCheckCmd(path),
		newLevelsCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute() error { return newRootCmd().Execute() }

// setup loads the configuration at path and builds a facade wired to the
// configured transport, metrics sinks and Sentry.
func setup(path string, opts ...logger.Option) (*logger.Logger, *config.File, error) {
	file, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := infralogger.Configure(file.Logging); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Resolve(file.Graylog)
	if err != nil {
		return nil, nil, err
	}
	sink, err := coremetrics.NewSink(file.Metrics.Sinks)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics sink: %w", err)
	}
	mon, err := monitoring.NewSentryMonitor(file.Sentry)
	if err != nil {
		coremetrics.Close(sink)
		return nil, nil, fmt.Errorf("sentry: %w", err)
	}
	all := append([]logger.Option{
		logger.WithAdapter(file.Transport.Module()),
		logger.WithMonitor(mon),
		logger.WithDiagnostics(infralogger.New("gelflog")),
	}, opts...)
	l, err := newLogger(cfg, sink, all...)
	if err != nil {
		return nil, nil, err
	}
	return l, file, nil
}

// newLogger builds the facade around sink. The logger owns sink once built;
// on failure sink is closed here.
func newLogger(cfg config.Config, sink coremetrics.EntrySink, opts ...logger.Option) (*logger.Logger, error) {
	l, err := logger.New(cfg, append([]logger.Option{logger.WithMetrics(sink)}, opts...)...)
	if err != nil {
		coremetrics.Close(sink)
		return nil, err
	}
	return l, nil
}

func closeLogger(l *logger.Logger) {
	if err := l.Close(); err != nil {
		infralogger.New("gelflog").Errorf("close: %v", err)
	}
}
