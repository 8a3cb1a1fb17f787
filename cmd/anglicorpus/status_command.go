package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"anglicorpus/internal/config"
	"anglicorpus/internal/resultstore"
	"anglicorpus/internal/services"
	"anglicorpus/internal/vocab"
)

type statusSnapshot struct {
	APIKeySet         bool     `json:"api_key_set"`
	TaggerURL         string   `json:"tagger_url,omitempty"`
	VocabularyPath    string   `json:"vocabulary_path"`
	VocabularyEntries int      `json:"vocabulary_entries"`
	VocabularyMissing bool     `json:"vocabulary_missing,omitempty"`
	OutputDir         string   `json:"output_dir"`
	Completed         []string `json:"completed"`
	InProgress        string   `json:"in_progress,omitempty"`
	Cursor            string   `json:"cursor,omitempty"`
	CheckpointRecords int      `json:"checkpoint_records,omitempty"`
	CheckpointStale   bool     `json:"checkpoint_stale,omitempty"`
	LatestRun         *runJSON `json:"latest_run,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration, collection progress, and the latest analysis run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			snapshot, err := collectStatus(cmd, ctx, cfg)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, snapshot)
			}
			out := cmd.OutOrStdout()
			printStatus(out, snapshot, shouldColorize(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print status as JSON")
	return cmd
}

func collectStatus(cmd *cobra.Command, ctx *commandContext, cfg *config.Config) (statusSnapshot, error) {
	snapshot := statusSnapshot{
		APIKeySet:      cfg.ValidateCollection() == nil,
		TaggerURL:      cfg.Tagger.URL,
		VocabularyPath: cfg.Paths.VocabularyPath,
		OutputDir:      cfg.Paths.OutputDir,
		Completed:      []string{},
	}

	vocabulary, err := vocab.Load(cfg.Paths.VocabularyPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		snapshot.VocabularyMissing = true
	case err != nil:
		return snapshot, err
	default:
		snapshot.VocabularyEntries = vocabulary.Len()
	}

	store, _, err := ctx.checkpointStore()
	if err != nil {
		return snapshot, err
	}
	completed, err := store.Completed()
	if err != nil {
		return snapshot, err
	}
	if completed != nil {
		snapshot.Completed = completed
	}
	cp, stale, err := store.Peek()
	if err != nil {
		return snapshot, err
	}
	if cp != nil {
		snapshot.InProgress = cp.ChannelID
		snapshot.Cursor = cp.Cursor
		snapshot.CheckpointRecords = len(cp.Records)
		snapshot.CheckpointStale = stale
	}

	// Opening the database creates it; skip it until analyze has run.
	if _, err := os.Stat(cfg.Paths.ResultsDB); err == nil {
		err := ctx.withResults(func(results *resultstore.Store) error {
			run, err := results.LatestRun(cmd.Context())
			if errors.Is(err, services.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			view := newRunJSON(run)
			snapshot.LatestRun = &view
			return nil
		})
		if err != nil {
			return snapshot, err
		}
	}
	return snapshot, nil
}

func printStatus(w io.Writer, s statusSnapshot, colorize bool) {
	lines := renderSectionHeader("Configuration", colorize)
	if s.APIKeySet {
		lines = append(lines, renderStatusLine("API key", statusOK, "configured", colorize))
	} else {
		lines = append(lines, renderStatusLine("API key", statusError, "missing (set YOUTUBE_API_KEY)", colorize))
	}
	if s.TaggerURL != "" {
		lines = append(lines, renderStatusLine("Tagger", statusOK, s.TaggerURL, colorize))
	} else {
		lines = append(lines, renderStatusLine("Tagger", statusInfo, "not configured; imported words are stored as OTHER", colorize))
	}
	if s.VocabularyMissing {
		lines = append(lines, renderStatusLine("Vocabulary", statusWarn, fmt.Sprintf("%s not found", s.VocabularyPath), colorize))
	} else {
		lines = append(lines, renderStatusLine("Vocabulary", statusOK, fmt.Sprintf("%d entries", s.VocabularyEntries), colorize))
	}
	lines = append(lines, "")

	lines = append(lines, renderSectionHeader("Collection", colorize)...)
	lines = append(lines, renderStatusLine("Output", statusInfo, s.OutputDir, colorize))
	lines = append(lines, renderStatusLine("Completed", statusInfo, fmt.Sprintf("%d channels", len(s.Completed)), colorize))
	switch {
	case s.CheckpointStale:
		lines = append(lines, renderStatusLine("In progress", statusInfo,
			fmt.Sprintf("none (stale checkpoint for %s is discarded by the next collect)", s.InProgress), colorize))
	case s.InProgress != "":
		cursor := s.Cursor
		if cursor == "" {
			cursor = "first page"
		}
		lines = append(lines, renderStatusLine("In progress", statusWarn,
			fmt.Sprintf("%s (%d records, next page: %s)", s.InProgress, s.CheckpointRecords, cursor), colorize))
	default:
		lines = append(lines, renderStatusLine("In progress", statusOK, "none", colorize))
	}
	lines = append(lines, "")

	lines = append(lines, renderSectionHeader("Analysis", colorize)...)
	if s.LatestRun == nil {
		lines = append(lines, renderStatusLine("Latest run", statusInfo, "none", colorize))
	} else {
		run := s.LatestRun
		lines = append(lines, renderStatusLine("Latest run", statusOK,
			fmt.Sprintf("%s at %s (%d transcripts, mode %s)", run.ID, run.FinishedAt.Local().Format(time.DateTime), run.Transcripts, run.CountMode), colorize))
	}
	printLines(w, lines...)
}
