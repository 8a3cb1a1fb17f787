package main

import (
	"strings"

	"github.com/spf13/cobra"

	"anglicorpus/internal/resultstore"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var (
		runID      string
		jsonOutput bool
		list       bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a stored analysis report (latest run by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withResults(func(store *resultstore.Store) error {
				if list {
					runs, err := store.ListRuns(cmd.Context(), limit)
					if err != nil {
						return err
					}
					if jsonOutput {
						views := make([]runJSON, 0, len(runs))
						for _, run := range runs {
							views = append(views, newRunJSON(run))
						}
						return writeJSON(cmd, views)
					}
					printRuns(cmd.OutOrStdout(), runs)
					return nil
				}

				var (
					run resultstore.Run
					err error
				)
				if id := strings.TrimSpace(runID); id != "" {
					run, err = store.GetRun(cmd.Context(), id)
				} else {
					run, err = store.LatestRun(cmd.Context())
				}
				if err != nil {
					return err
				}
				report, err := store.Report(cmd.Context(), run)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, reportJSON{Run: newRunJSON(run), Report: report})
				}
				out := cmd.OutOrStdout()
				printReport(out, run, report, shouldColorize(out))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run id to print instead of the latest run")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print as JSON")
	cmd.Flags().BoolVar(&list, "list", false, "List recorded runs instead of printing a report")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}
