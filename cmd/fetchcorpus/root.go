package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fetchcorpus/internal/config"
	"fetchcorpus/internal/corpus"
	"fetchcorpus/internal/logging"
	"fetchcorpus/internal/pipeline"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var logFormatFlag string
	var noProgress bool

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "fetchcorpus [dest-root]",
		Short: "Download speech corpora into a foreground/background training layout",
		Long: "fetchcorpus downloads the DNSMOS, VoiceBank+DEMAND, LibriSpeech, DAPS, and\n" +
			"VCTK corpora, extracts them under <dest-root>/raw, and collects their .wav\n" +
			"files into <dest-root>/fg/<lang> (clean speech) and <dest-root>/bg/<lang>\n" +
			"(noise). Runs are idempotent: archives are never re-downloaded and existing\n" +
			"files are never overwritten. Without dataset flags all datasets are processed.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	selectors := make(map[string]*bool, len(corpus.Names()))
	for _, name := range corpus.Names() {
		ds, _ := corpus.Lookup(name)
		selectors[name] = rootCmd.Flags().Bool(name, false, fmt.Sprintf("process the %s dataset (%s)", name, ds.Description))
	}

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return err
		}
		if logLevelFlag != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(logLevelFlag))
		}
		if logFormatFlag != "" {
			cfg.Logging.Format = strings.ToLower(strings.TrimSpace(logFormatFlag))
		}
		if len(args) == 1 {
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			cfg.Paths.DestRoot = root
		}

		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			return err
		}

		datasets, err := corpus.Resolve(selection(selectors))
		if err != nil {
			return err
		}

		runner, err := pipeline.NewRunner(cfg, logger)
		if err != nil {
			return err
		}
		if noProgress {
			runner.Fetcher().SetProgress(false)
		}

		report, err := runner.Run(cmd.Context(), datasets)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderReport(report))
		fmt.Fprintln(cmd.OutOrStdout(), summaryLine(report))
		return nil
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format (console, json)")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the download progress bar")

	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

// selection maps set dataset flags onto dataset names. Empty means all.
func selection(selectors map[string]*bool) []string {
	var names []string
	for _, name := range corpus.Names() {
		if enabled := selectors[name]; enabled != nil && *enabled {
			names = append(names, name)
		}
	}
	return names
}

func renderReport(report *pipeline.Report) string {
	headers := []string{"DATASET", "STATUS", "FETCHED", "COPIED", "SKIPPED", "NOTE"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(report.Results))
	for _, result := range report.Results {
		note := ""
		if result.Err != nil {
			note = result.Err.Error()
		} else if result.Materialized {
			note = "already materialized"
		}
		rows = append(rows, []string{
			result.Dataset.Name,
			string(result.Status),
			fmt.Sprintf("%d", result.ArchivesFetched),
			fmt.Sprintf("%d", result.FilesCopied),
			fmt.Sprintf("%d", result.FilesSkipped),
			note,
		})
	}
	return renderTable(headers, rows, aligns)
}

func summaryLine(report *pipeline.Report) string {
	failed := report.Failed()
	collected := len(report.Results) - len(failed)
	line := fmt.Sprintf("collected %d of %d datasets, %d files copied", collected, len(report.Results), report.Copied())
	if len(failed) == 0 {
		return line
	}
	names := make([]string, 0, len(failed))
	for _, result := range failed {
		names = append(names, result.Dataset.Name)
	}
	return fmt.Sprintf("%s (skipped: %s)", line, strings.Join(names, ", "))
}
