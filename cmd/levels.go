package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gelflog/core/model"
)

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List severity levels and their console stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, l := range model.Levels() {
				stream := "stdout"
				if l.IsErrorStream() {
					stream = "stderr"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\t%-9s\t%s\n", int(l), l, stream); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
