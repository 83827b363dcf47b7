package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/mixdown/internal/logging"
)

// rootFlags carries the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	profile    string
	verbose    bool
}

func (f *rootFlags) logger() *slog.Logger {
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelInfo
	}
	return logging.NewLogger(os.Stderr, level)
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "mixdown",
		Short:         "Mix audio stems into a loudness-targeted mixdown",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path (TOML)")
	rootCmd.PersistentFlags().StringVarP(&flags.profile, "profile", "p", "", "Quality profile (e.g. fast, high)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log pipeline stages to stderr")

	rootCmd.AddCommand(newProcessCommand(flags))
	rootCmd.AddCommand(newBatchCommand(flags))
	rootCmd.AddCommand(newHealthCommand(flags))

	return rootCmd
}
