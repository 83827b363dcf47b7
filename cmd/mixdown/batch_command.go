package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/ik5/mixdown"
	"github.com/ik5/mixdown/batch"
	"github.com/ik5/mixdown/config"
)

func newBatchCommand(flags *rootFlags) *cobra.Command {
	var (
		outputName string
		retries    int
	)

	cmd := &cobra.Command{
		Use:   "batch <root-dir>",
		Short: "Mix every song folder under a root directory",
		Long: `Treats each subdirectory of <root-dir> as one song folder of stems and
mixes it into <song>/<output-name>. Jobs run in order; a failed song never
aborts the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootDir := args[0]

			cfg, err := config.Load(flags.configPath, flags.profile)
			if err != nil {
				return err
			}

			entries, err := os.ReadDir(rootDir)
			if err != nil {
				return fmt.Errorf("reading batch root: %w", err)
			}

			registry := mixdown.DefaultRegistry()
			logger := flags.logger()

			var jobs []batch.Job
			for _, entry := range entries {
				if !entry.IsDir() {
					continue
				}

				inputDir := filepath.Join(rootDir, entry.Name())
				outputDir := filepath.Join(inputDir, outputName)

				jobs = append(jobs, batch.Job{
					Name: entry.Name(),
					Run: func() error {
						if err := os.MkdirAll(outputDir, 0o755); err != nil {
							return err
						}

						lock := flock.New(filepath.Join(outputDir, ".mixdown.lock"))
						locked, err := lock.TryLock()
						if err != nil {
							return err
						}
						if !locked {
							return fmt.Errorf("output directory %s is locked", outputDir)
						}
						defer lock.Unlock()

						opts := cfg.Options()
						opts.Registry = registry
						opts.Logger = logger

						_, err = mixdown.Process(inputDir, outputDir, opts)
						return err
					},
				})
			}

			if len(jobs) == 0 {
				return fmt.Errorf("no song folders found under %s", rootDir)
			}

			executor := &batch.Executor{
				Jobs:       jobs,
				MaxRetries: retries,
				Out:        cmd.OutOrStdout(),
			}

			stats := executor.Run()
			fmt.Fprintln(cmd.OutOrStdout(), batch.Summary(stats))

			if stats.Failed > 0 {
				return fmt.Errorf("%d of %d songs failed", stats.Failed, stats.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputName, "output-name", "mix", "Output directory name inside each song folder")
	cmd.Flags().IntVar(&retries, "retries", 0, "Retries per failed song")

	return cmd
}
