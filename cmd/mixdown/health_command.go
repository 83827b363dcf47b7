package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/mixdown"
	"github.com/ik5/mixdown/health"
)

func newHealthCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health <input-dir> <output-dir>",
		Short: "Run preflight checks without mixing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs := health.Run(args[0], args[1], mixdown.DefaultRegistry())
			if len(msgs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "all checks passed")
				return nil
			}

			for _, msg := range msgs {
				fmt.Fprintln(cmd.OutOrStdout(), "FAIL:", msg)
			}
			return fmt.Errorf("%d health check(s) failed", len(msgs))
		},
	}
}
