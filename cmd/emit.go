package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gelflog/core/model"
	"github.com/kilianp07/gelflog/logger"
	"github.com/kilianp07/gelflog/logger/formatter"
)

func newEmitCmd(cfgPath func() string) *cobra.Command {
	var (
		level  string
		extras []string
		errs   []string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "emit <message>",
		Short: "Send one log entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := model.ParseLevel(level)
			if err != nil {
				return err
			}
			callArgs, err := emitArgs(strings.Join(args, " "), extras, errs)
			if err != nil {
				return err
			}
			l, _, err := setup(cfgPath(), consoleOption(cmd))
			if err != nil {
				return err
			}
			defer closeLogger(l)

			resp, err := l.Log(lvl, callArgs...)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&level, "level", "l", "info", "severity level")
	cmd.Flags().StringArrayVarP(&extras, "extra", "e", nil, "contextual key=value pair, repeatable")
	cmd.Flags().StringArrayVar(&errs, "error", nil, "error message attached to the entry, repeatable")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the response as JSON")
	return cmd
}

// emitArgs turns command line values into facade arguments: the message,
// one object holding the key=value pairs and one error per --error flag.
func emitArgs(message string, extras, errs []string) ([]any, error) {
	args := []any{message}
	if len(extras) > 0 {
		obj := make(map[string]any, len(extras))
		for _, kv := range extras {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				return nil, fmt.Errorf("invalid extra %q, want key=value", kv)
			}
			obj[k] = v
		}
		args = append(args, obj)
	}
	for _, e := range errs {
		args = append(args, errors.New(e))
	}
	return args, nil
}

func consoleOption(cmd *cobra.Command) logger.Option {
	return logger.WithConsole(formatter.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr()))
}
