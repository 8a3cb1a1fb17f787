package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"anglicorpus/internal/analysis"
	"anglicorpus/internal/checkpoint"
	"anglicorpus/internal/logging"
	"anglicorpus/internal/resultstore"
	"anglicorpus/internal/services"
	"anglicorpus/internal/vocab"
)

// AnalyzeOptions configures an analysis run.
type AnalyzeOptions struct {
	VocabularyPath string
	Analysis       analysis.Options
	TopN           int
}

// AnalyzeResult is the outcome of an analysis run.
type AnalyzeResult struct {
	Run    resultstore.Run
	Report analysis.Report
}

// Analyzer scores every collected transcript against the vocabulary.
type Analyzer struct {
	corpus  *checkpoint.Store
	results *resultstore.Store
	opts    AnalyzeOptions
	logger  *slog.Logger
	now     func() time.Time
}

// NewAnalyzer wires the analysis driver. results may be nil, in which case
// runs are not persisted.
func NewAnalyzer(corpus *checkpoint.Store, results *resultstore.Store, opts AnalyzeOptions, logger *slog.Logger) *Analyzer {
	if opts.TopN <= 0 {
		opts.TopN = analysis.DefaultTopN
	}
	return &Analyzer{
		corpus:  corpus,
		results: results,
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "analyze"),
		now:     time.Now,
	}
}

// Run analyzes the whole corpus and records the run.
func (a *Analyzer) Run(ctx context.Context) (AnalyzeResult, error) {
	started := a.now()
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, a.logger)

	vocabulary, err := vocab.Load(a.opts.VocabularyPath)
	if err != nil {
		return AnalyzeResult{}, err
	}
	if vocabulary.Len() == 0 {
		return AnalyzeResult{}, services.Wrap(services.ErrValidation, "pipeline", "analyze",
			fmt.Sprintf("vocabulary %s is empty", a.opts.VocabularyPath), nil)
	}
	analyzer, err := analysis.NewAnalyzer(vocabulary.Loanwords(), a.opts.Analysis)
	if err != nil {
		return AnalyzeResult{}, services.Wrap(services.ErrValidation, "pipeline", "analyze", "invalid analysis options", err)
	}

	channels, err := a.corpus.LoadAll()
	if err != nil {
		return AnalyzeResult{}, err
	}

	var results []analysis.TranscriptResult
	for _, channel := range channels {
		if err := ctx.Err(); err != nil {
			return AnalyzeResult{}, err
		}
		for position, record := range channel.Transcripts {
			results = append(results, analyzer.Analyze(analysis.Document{
				ChannelID:  channel.ID,
				Position:   position,
				Title:      record.Title,
				Category:   record.Category,
				Transcript: record.Transcript,
			}))
		}
	}
	report := analysis.BuildReport(results, a.opts.TopN)

	run := resultstore.Run{
		ID:             runID,
		StartedAt:      started,
		FinishedAt:     a.now(),
		VocabularySize: analyzer.Loanwords(),
		Channels:       len(channels),
		Transcripts:    len(results),
		Options:        analyzer.Options(),
		TopN:           a.opts.TopN,
	}
	if a.results != nil {
		if err := a.results.SaveRun(ctx, run, results); err != nil {
			return AnalyzeResult{}, fmt.Errorf("pipeline: record analysis run: %w", err)
		}
	}

	logger.Info("analysis finished",
		logging.String(logging.FieldEventType, "analysis_finished"),
		logging.Int("channels", run.Channels),
		logging.Int("transcripts", run.Transcripts),
		logging.Int("loanwords", run.VocabularySize),
		logging.Int("distinct_found", len(report.Words)),
		logging.Duration("elapsed", run.FinishedAt.Sub(started)),
	)
	return AnalyzeResult{Run: run, Report: report}, nil
}
