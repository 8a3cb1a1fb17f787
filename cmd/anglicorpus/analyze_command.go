package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"anglicorpus/internal/analysis"
	"anglicorpus/internal/config"
	"anglicorpus/internal/pipeline"
	"anglicorpus/internal/resultstore"
	"anglicorpus/internal/services"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		noSave     bool
		topN       int
		halfWidth  int
		minLength  int
		countMode  string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Count anglicisms and score their context entropy across the corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := pipeline.AnalyzeOptions{
				VocabularyPath: cfg.Paths.VocabularyPath,
				Analysis: analysis.Options{
					HalfWidth:     cfg.Analysis.WindowHalfWidth,
					MinBaseLength: cfg.Analysis.MinBaseLength,
					CountMode:     analysis.CountMode(cfg.Analysis.CountMode),
				},
				TopN: cfg.Analysis.TopN,
			}
			flags := cmd.Flags()
			if flags.Changed("top") {
				opts.TopN = topN
			}
			if flags.Changed("window") {
				opts.Analysis.HalfWidth = halfWidth
			}
			if flags.Changed("min-length") {
				opts.Analysis.MinBaseLength = minLength
			}
			if flags.Changed("count-mode") {
				mode := strings.ToLower(strings.TrimSpace(countMode))
				if mode != config.CountFirst && mode != config.CountAll {
					return services.Wrap(services.ErrValidation, "analyze", "",
						fmt.Sprintf("--count-mode must be %q or %q", config.CountFirst, config.CountAll), nil)
				}
				opts.Analysis.CountMode = analysis.CountMode(mode)
			}
			if opts.TopN <= 0 || opts.Analysis.HalfWidth <= 0 || opts.Analysis.MinBaseLength < 1 {
				return services.Wrap(services.ErrValidation, "analyze", "", "--top and --window must be positive and --min-length at least 1", nil)
			}

			corpus, logger, err := ctx.checkpointStore()
			if err != nil {
				return err
			}

			run := func(results *resultstore.Store) error {
				result, err := pipeline.NewAnalyzer(corpus, results, opts, logger).Run(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, reportJSON{Run: newRunJSON(result.Run), Report: result.Report})
				}
				out := cmd.OutOrStdout()
				printReport(out, result.Run, result.Report, shouldColorize(out))
				return nil
			}
			if noSave {
				return run(nil)
			}
			return ctx.withResults(run)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not record the run in the results database")
	cmd.Flags().IntVar(&topN, "top", analysis.DefaultTopN, "Number of transcripts per ranking")
	cmd.Flags().IntVar(&halfWidth, "window", analysis.DefaultHalfWidth, "Entropy window half-width in tokens")
	cmd.Flags().IntVar(&minLength, "min-length", analysis.DefaultMinBaseLength, "Ignore loanwords with shorter base forms")
	cmd.Flags().StringVar(&countMode, "count-mode", config.CountAll, "Count every form occurrence (all) or one per loanword (first)")
	return cmd
}
