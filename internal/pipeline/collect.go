package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"anglicorpus/internal/checkpoint"
	"anglicorpus/internal/collector"
	"anglicorpus/internal/logging"
	"anglicorpus/internal/services"
)

// ChannelResult summarizes the work done for one channel in a run.
type ChannelResult struct {
	ChannelID string          `json:"channel_id"`
	State     collector.State `json:"state"`
	Pages     int             `json:"pages"`
	Records   int             `json:"records"`
	Total     int             `json:"total"`
	Resumed   bool            `json:"resumed,omitempty"`
	Skipped   bool            `json:"skipped,omitempty"`
}

// CollectResult summarizes a collection run.
type CollectResult struct {
	Channels []ChannelResult `json:"channels"`
	// PausedChannel is set when the platform quota stopped the run.
	PausedChannel string `json:"paused_channel,omitempty"`
}

// Records returns the number of records collected during the run.
func (r CollectResult) Records() int {
	total := 0
	for _, ch := range r.Channels {
		total += ch.Records
	}
	return total
}

// Paused reports whether the run stopped on an exhausted quota.
func (r CollectResult) Paused() bool {
	return r.PausedChannel != ""
}

// Collector drives channel collection and persists every page.
type Collector struct {
	store       *checkpoint.Store
	metadata    collector.Metadata
	transcripts collector.Transcripts
	opts        collector.Options
	logger      *slog.Logger
}

// NewCollector wires the collection driver. opts is passed to every
// per-channel collector.
func NewCollector(store *checkpoint.Store, metadata collector.Metadata, transcripts collector.Transcripts, opts collector.Options, logger *slog.Logger) *Collector {
	logger = logging.NewComponentLogger(logger, "collect")
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return &Collector{
		store:       store,
		metadata:    metadata,
		transcripts: transcripts,
		opts:        opts,
		logger:      logger,
	}
}

// Run collects channels in order. An interrupted channel from an earlier run
// is finished first, and the run continues with the channel after it in the
// list. Channels already completed are skipped. The run stops after saving a
// checkpoint when the quota is exhausted, when the context is cancelled, or
// when a channel fails.
func (c *Collector) Run(ctx context.Context, channels []string) (CollectResult, error) {
	var result CollectResult

	unlock, err := c.store.Lock()
	if err != nil {
		return result, err
	}
	defer func() { _ = unlock() }()

	resume, err := c.store.Load()
	if err != nil {
		return result, err
	}
	completedIDs, err := c.store.Completed()
	if err != nil {
		return result, err
	}
	completed := make(map[string]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = struct{}{}
	}

	start := 0
	resumedID := ""
	if resume != nil {
		resumedID = resume.Checkpoint.ChannelID
		if idx := slices.Index(channels, resumedID); idx >= 0 {
			start = idx + 1
		} else {
			logging.WarnWithContext(c.logger, "checkpointed channel not in channel list", "checkpoint_channel_unlisted",
				logging.String(logging.FieldChannelID, resumedID),
				logging.String(logging.FieldImpact, "the checkpointed channel is finished first, then the list starts from the top"),
				logging.String(logging.FieldErrorHint, "add the channel back to the list or delete progress.json"),
			)
		}
		c.logger.Info("resuming channel from checkpoint",
			logging.String(logging.FieldChannelID, resumedID),
			logging.String(logging.FieldEventType, "collection_resumed"),
			logging.String("cursor", resume.Checkpoint.Cursor),
			logging.Int("records", len(resume.Output.Transcripts)),
		)
		channelResult, stop, err := c.collectChannel(ctx, resume.Output, resume.Checkpoint.Cursor)
		channelResult.Resumed = true
		result.Channels = append(result.Channels, channelResult)
		if err != nil {
			return result, err
		}
		if stop {
			result.PausedChannel = resumedID
			return result, nil
		}
		completed[resumedID] = struct{}{}
	}

	for _, channelID := range channels[start:] {
		if _, done := completed[channelID]; done {
			c.logger.Debug("channel already collected; skipping", logging.String(logging.FieldChannelID, channelID))
			result.Channels = append(result.Channels, ChannelResult{ChannelID: channelID, State: collector.StateDone, Skipped: true})
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		out := checkpoint.ChannelOutput{ID: channelID, Transcripts: []checkpoint.Record{}}
		channelResult, stop, err := c.collectChannel(ctx, out, "")
		result.Channels = append(result.Channels, channelResult)
		if err != nil {
			return result, err
		}
		if stop {
			result.PausedChannel = channelID
			return result, nil
		}
	}

	c.logger.Info("collection finished",
		logging.String(logging.FieldEventType, "collection_finished"),
		logging.Int("channels", len(result.Channels)),
		logging.Int("records", result.Records()),
	)
	return result, nil
}

// collectChannel runs one channel to a terminal state. stop reports a quota
// pause.
func (c *Collector) collectChannel(ctx context.Context, out checkpoint.ChannelOutput, cursor string) (ChannelResult, bool, error) {
	channelID := out.ID
	ctx = services.WithChannelID(ctx, channelID)
	logger := logging.WithContext(ctx, c.logger)
	result := ChannelResult{ChannelID: channelID, State: collector.StateNotStarted}

	col := collector.New(channelID, cursor, c.metadata, c.transcripts, c.opts)

	saveProgress := func() error {
		return c.store.Save(out, &checkpoint.Checkpoint{ChannelID: channelID, Cursor: col.Cursor()})
	}
	abort := func(cause error) (ChannelResult, bool, error) {
		result.State = col.State()
		result.Total = len(out.Transcripts)
		if err := saveProgress(); err != nil {
			return result, false, fmt.Errorf("%w (checkpoint not saved: %v)", cause, err)
		}
		return result, false, cause
	}

	logger.Info("collecting channel",
		logging.String(logging.FieldEventType, "channel_started"),
		logging.String("cursor", cursor),
	)
	if err := col.Start(ctx); err != nil {
		if ctx.Err() != nil {
			return abort(err)
		}
		logging.ErrorWithContext(logger, "channel collection failed", "channel_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access to the platform API, then rerun collect"),
		)
		return abort(fmt.Errorf("pipeline: collect %s: %w", channelID, err))
	}

	for !col.State().Terminal() {
		if err := ctx.Err(); err != nil {
			return abort(err)
		}
		records, err := col.Next(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logging.ErrorWithContext(logger, "channel collection failed", "channel_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "rerun collect to resume from the saved checkpoint"),
				)
			}
			return abort(fmt.Errorf("pipeline: collect %s: %w", channelID, err))
		}
		if records == nil {
			// Ended without a page: quota pause or a failed metadata request.
			continue
		}
		result.Pages++
		result.Records += len(records)
		out.Transcripts = append(out.Transcripts, records...)
		if col.State() == collector.StatePageFetched {
			if err := saveProgress(); err != nil {
				return result, false, err
			}
			logger.Debug("page saved",
				logging.String(logging.FieldEventType, "page_saved"),
				logging.String("cursor", col.Cursor()),
				logging.Int("total", len(out.Transcripts)),
			)
		}
	}

	result.State = col.State()
	result.Total = len(out.Transcripts)
	switch col.State() {
	case collector.StateQuotaPaused:
		if err := saveProgress(); err != nil {
			return result, false, err
		}
		logger.Info("channel paused for quota; checkpoint saved",
			logging.String(logging.FieldEventType, "quota_paused"),
			logging.String("cursor", col.Cursor()),
			logging.Int("total", result.Total),
		)
		return result, true, nil
	default:
		if err := c.store.Save(out, nil); err != nil {
			return result, false, err
		}
		logger.Info("channel finished",
			logging.String(logging.FieldEventType, "channel_finished"),
			logging.Int("pages", result.Pages),
			logging.Int("total", result.Total),
		)
		return result, false, nil
	}
}
