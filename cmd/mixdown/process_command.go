package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/ik5/mixdown"
	"github.com/ik5/mixdown/config"
	"github.com/ik5/mixdown/health"
	"github.com/ik5/mixdown/mix"
)

func newProcessCommand(flags *rootFlags) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "process <input-dir> <output-dir>",
		Short: "Mix the stems of one song folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputDir, outputDir := args[0], args[1]

			cfg, err := config.Load(flags.configPath, flags.profile)
			if err != nil {
				return err
			}

			registry := mixdown.DefaultRegistry()

			if !skipPreflight {
				if msgs := health.Run(inputDir, outputDir, registry); len(msgs) > 0 {
					return fmt.Errorf("preflight failed:\n  %s", strings.Join(msgs, "\n  "))
				}
			}

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			// Two processes racing on one output directory would corrupt
			// each other's resume state, so hold an exclusive lock for
			// the whole run.
			lock := flock.New(filepath.Join(outputDir, ".mixdown.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquiring output lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("output directory %s is locked by another mixdown process", outputDir)
			}
			defer lock.Unlock()

			opts := cfg.Options()
			opts.Registry = registry
			opts.Logger = flags.logger()

			report, err := mixdown.Process(inputDir, outputDir, opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderReport(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment health checks")

	return cmd
}

func renderReport(report *mix.Report) string {
	names := make([]string, 0, len(report.Tracks))
	for name := range report.Tracks {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		tr := report.Tracks[name]
		cached := ""
		if tr.Cached {
			cached = "yes"
		}
		rows = append(rows, []string{
			name,
			formatDB(tr.InputDB),
			formatDB(tr.GainDB),
			cached,
		})
	}

	var b strings.Builder
	b.WriteString(renderTable(
		[]string{"Stem", "Input dB", "Gain dB", "Cached"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintf(&b, "\nmix: %s LUFS, true peak %s dBFS (mix gain %s dB, limiter %s dB)",
		formatDB(report.MixLUFS),
		formatDB(report.MixTruePeakDB),
		formatDB(report.MixGainDB),
		formatDB(report.LimiterGainDB))

	return b.String()
}

func formatDB(v mix.DB) string {
	return fmt.Sprintf("%.2f", float64(v))
}
