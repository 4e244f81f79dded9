package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gelflog/core/model"
	infralogger "github.com/kilianp07/gelflog/infra/logger"
	inframetrics "github.com/kilianp07/gelflog/infra/metrics"
)

const maxLineSize = 1 << 20

func newPipeCmd(cfgPath func() string) *cobra.Command {
	var level string
	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Forward every line read from stdin as a log entry",
		Long: "Each non-empty line becomes one entry. A line holding a JSON object " +
			"uses its \"message\" and \"level\" keys; the remaining keys are sent as context.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := model.ParseLevel(level)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			l, file, err := setup(cfgPath(), consoleOption(cmd))
			if err != nil {
				return err
			}
			defer closeLogger(l)

			diag := infralogger.New("pipe")
			if addr := file.Metrics.PrometheusAddr; addr != "" {
				go func() {
					if err := inframetrics.StartPromServer(ctx, addr); err != nil {
						diag.Errorf("prom server: %v", err)
					}
				}()
			}

			var total, failed int
			sc := bufio.NewScanner(cmd.InOrStdin())
			sc.Buffer(make([]byte, 64*1024), maxLineSize)
			for sc.Scan() {
				if ctx.Err() != nil {
					break
				}
				line := strings.TrimSpace(sc.Text())
				if line == "" {
					continue
				}
				total++
				lvl, args := parseLine(line, def)
				if _, err := l.Log(lvl, args...); err != nil {
					failed++
					diag.Errorw("forward line", err, map[string]any{"line": total})
				}
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d entries failed", failed, total)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&level, "level", "l", "info", "default severity level")
	return cmd
}

// parseLine decodes a JSON object line into a message and its context.
// Other lines are sent verbatim at def.
func parseLine(line string, def model.Level) (model.Level, []any) {
	if !strings.HasPrefix(line, "{") {
		return def, []any{line}
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(line), &obj); err != nil {
		return def, []any{line}
	}
	lvl := def
	if s, ok := obj["level"].(string); ok {
		if parsed, err := model.ParseLevel(s); err == nil {
			lvl = parsed
			delete(obj, "level")
		}
	}
	msg, ok := obj["message"].(string)
	if !ok {
		return lvl, []any{line}
	}
	delete(obj, "message")
	if len(obj) == 0 {
		return lvl, []any{msg}
	}
	return lvl, []any{msg, obj}
}
