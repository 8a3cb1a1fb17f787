package main

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"anglicorpus/internal/collector"
	"anglicorpus/internal/pipeline"
	"anglicorpus/internal/services"
	"anglicorpus/internal/transcript"
	"anglicorpus/internal/youtube"
)

func newCollectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "collect <channel-file>",
		Short: "Collect German transcripts for every channel in a list",
		Long: `Collect walks the uploads of each channel listed in the file (one id per
line, '#' starts a comment) and stores every video with a German transcript
under the output directory. Progress is saved after each page; an exhausted
API quota stops the run with exit code 3 and the next run resumes where it
left off.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			channels, err := pipeline.ReadChannelList(args[0])
			if err != nil {
				return err
			}
			if err := cfg.ValidateCollection(); err != nil {
				return services.Wrap(services.ErrConfiguration, "collect", "", "", err)
			}

			store, logger, err := ctx.checkpointStore()
			if err != nil {
				return err
			}
			metadata, err := youtube.New(youtube.Config{
				APIKey:            cfg.YouTube.APIKey,
				BaseURL:           cfg.YouTube.BaseURL,
				PageSize:          cfg.YouTube.PageSize,
				RequestsPerSecond: cfg.YouTube.RequestsPerSecond,
				HTTPClient:        &http.Client{Timeout: cfg.YouTubeTimeout()},
			})
			if err != nil {
				return err
			}
			transcripts, err := transcript.New(transcript.Config{
				BaseURL:    cfg.Transcripts.BaseURL,
				HTTPClient: &http.Client{Timeout: cfg.YouTubeTimeout()},
			})
			if err != nil {
				return err
			}

			driver := pipeline.NewCollector(store, metadata, transcripts, collector.Options{
				Language:     cfg.Transcripts.Language,
				RetryBackoff: cfg.RetryBackoff(),
			}, logger)
			result, runErr := driver.Run(cmd.Context(), channels)

			if jsonOutput {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			} else {
				printCollectResult(cmd.OutOrStdout(), result)
			}
			if runErr != nil {
				return runErr
			}
			if result.Paused() {
				return services.Wrap(services.ErrQuota, "collect", "",
					fmt.Sprintf("API quota exhausted while collecting %s; progress saved, run collect again once the quota resets", result.PausedChannel), nil)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}

func printCollectResult(w io.Writer, result pipeline.CollectResult) {
	if len(result.Channels) == 0 {
		fmt.Fprintln(w, "No channels collected")
		return
	}
	tableRows := make([][]string, 0, len(result.Channels))
	for _, ch := range result.Channels {
		tableRows = append(tableRows, []string{
			ch.ChannelID,
			channelStateLabel(ch),
			strconv.Itoa(ch.Pages),
			strconv.Itoa(ch.Records),
			strconv.Itoa(ch.Total),
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Channel", "State", "Pages", "New", "Total"},
		tableRows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))
	fmt.Fprintf(w, "Collected %d transcripts from %d channels\n", result.Records(), len(result.Channels))
}

func channelStateLabel(ch pipeline.ChannelResult) string {
	switch {
	case ch.Skipped:
		return "already collected"
	case ch.Resumed:
		return ch.State.String() + " (resumed)"
	default:
		return ch.State.String()
	}
}
