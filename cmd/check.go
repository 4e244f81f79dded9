package cmd

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"
)

func newCheckCmd(cfgPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and connect the transport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, file, err := setup(cfgPath())
			if err != nil {
				return err
			}
			defer closeLogger(l)

			cfg := l.Config()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "collector:   %s\n", net.JoinHostPort(cfg.Server, strconv.Itoa(cfg.InputPort)))
			fmt.Fprintf(out, "adapter:     %s\n", file.Transport.Adapter)
			fmt.Fprintf(out, "facility:    %s\n", cfg.AppName)
			fmt.Fprintf(out, "environment: %s\n", cfg.Environment)
			fmt.Fprintf(out, "console:     %t\n", cfg.ShowConsole)
			return nil
		},
	}
}
