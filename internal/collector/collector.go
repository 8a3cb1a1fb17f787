package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"anglicorpus/internal/checkpoint"
	"anglicorpus/internal/logging"
	"anglicorpus/internal/services"
	"anglicorpus/internal/textutil"
	"anglicorpus/internal/transcript"
	"anglicorpus/internal/youtube"
)

// Metadata is the platform metadata capability the collector consumes.
type Metadata interface {
	UploadsPlaylist(ctx context.Context, channelID string) (string, error)
	PlaylistPage(ctx context.Context, playlistID, pageToken string) (youtube.Page, error)
	Videos(ctx context.Context, ids []string) ([]youtube.Video, error)
	CategoryName(ctx context.Context, categoryID string) (string, error)
}

// Transcripts is the caption fetch capability the collector consumes.
type Transcripts interface {
	Fetch(ctx context.Context, videoID, lang string) ([]string, error)
}

// Options tunes a Collector. An empty Language selects German.
type Options struct {
	Language string
	// RetryBackoff is the pause before the single retry of a transcript that
	// failed to parse. Zero retries immediately.
	RetryBackoff time.Duration
	// Sleep waits between a failed parse and its retry. Tests replace it.
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *slog.Logger
}

// Collector is a stateful cursor over one channel's uploads.
type Collector struct {
	channelID   string
	playlistID  string
	cursor      string
	state       State
	metadata    Metadata
	transcripts Transcripts
	language    string
	backoff     time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *slog.Logger
	categories  map[string]string
}

// New returns a collector for channelID that will start at cursor. An empty
// cursor starts at the first page.
func New(channelID, cursor string, metadata Metadata, transcripts Transcripts, opts Options) *Collector {
	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = "de"
	}
	backoff := max(opts.RetryBackoff, 0)
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepWithContext
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Collector{
		channelID:   channelID,
		cursor:      cursor,
		state:       StateNotStarted,
		metadata:    metadata,
		transcripts: transcripts,
		language:    language,
		backoff:     backoff,
		sleep:       sleep,
		logger:      logger.With(logging.String(logging.FieldChannelID, channelID)),
		categories:  make(map[string]string),
	}
}

// ChannelID returns the channel being collected.
func (c *Collector) ChannelID() string { return c.channelID }

// Cursor returns the page token of the next unfetched page. It only advances
// once a page has been fully assembled.
func (c *Collector) Cursor() string { return c.cursor }

// State returns the current lifecycle state.
func (c *Collector) State() State { return c.state }

// Start resolves the channel's uploads playlist. A channel that cannot be
// resolved ends in StateDone with no output; an explicit quota signal ends in
// StateQuotaPaused. A transport failure moves the collector to StateFailed
// and is returned, as is context cancellation.
func (c *Collector) Start(ctx context.Context) error {
	if c.state != StateNotStarted {
		return fmt.Errorf("collector: start %s: already %s", c.channelID, c.state)
	}
	playlistID, err := c.metadata.UploadsPlaylist(ctx, c.channelID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if services.IsQuota(err) {
			c.pauseForQuota("resolve uploads playlist", err)
			return nil
		}
		if errors.Is(err, services.ErrTransient) {
			return c.fail("resolve uploads playlist", err)
		}
		logging.WarnWithContext(c.logger, "channel unreachable; skipping", "channel_unreachable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "no transcripts collected for this channel"),
			logging.String(logging.FieldErrorHint, "check the channel id in the channel list"),
		)
		c.state = StateDone
		return nil
	}
	c.playlistID = playlistID
	c.state = StateActive
	c.logger.Debug("uploads playlist resolved", logging.String("playlist_id", playlistID))
	return nil
}

// Next fetches one page and returns the records of every video that has a
// transcript in the target language. A fetched page always yields a non-nil
// slice; nil means no page was produced, either because the collector is in a
// terminal state or because this call ended the channel. A non-nil error is
// either context cancellation, which leaves state and cursor untouched, or a
// transport or unexpected transcript failure, which moves the collector to
// StateFailed. The cursor only advances once a whole page is assembled.
func (c *Collector) Next(ctx context.Context) ([]checkpoint.Record, error) {
	switch c.state {
	case StateNotStarted:
		return nil, fmt.Errorf("collector: next %s: not started", c.channelID)
	case StateDone, StateQuotaPaused, StateFailed:
		return nil, nil
	}

	page, err := c.metadata.PlaylistPage(ctx, c.playlistID, c.cursor)
	if err != nil {
		return nil, c.endChannel(ctx, "playlist items", err)
	}

	retained := make([]string, 0, len(page.VideoIDs))
	texts := make(map[string]string, len(page.VideoIDs))
	for _, videoID := range page.VideoIDs {
		text, ok, err := c.fetchTranscript(ctx, videoID)
		if err != nil {
			return nil, err
		}
		if c.state.Terminal() {
			return nil, nil
		}
		if !ok {
			continue
		}
		if _, seen := texts[videoID]; !seen {
			retained = append(retained, videoID)
		}
		texts[videoID] = text
	}

	records, err := c.assemble(ctx, retained, texts)
	if err != nil {
		return nil, err
	}
	if c.state.Terminal() {
		return nil, nil
	}

	c.cursor = page.NextPageToken
	if c.cursor == "" {
		c.state = StateDone
	} else {
		c.state = StatePageFetched
	}
	c.logger.Info("page collected",
		logging.String(logging.FieldEventType, "page_collected"),
		logging.Int("videos", len(page.VideoIDs)),
		logging.Int("records", len(records)),
		logging.Bool("last_page", c.state == StateDone),
	)
	return records, nil
}

// assemble joins transcripts with video metadata by video id. Metadata
// failures end the channel and discard the page.
func (c *Collector) assemble(ctx context.Context, retained []string, texts map[string]string) ([]checkpoint.Record, error) {
	records := make([]checkpoint.Record, 0, len(retained))
	if len(retained) == 0 {
		return records, nil
	}
	videos, err := c.metadata.Videos(ctx, retained)
	if err != nil {
		return nil, c.endChannel(ctx, "video metadata", err)
	}
	byID := make(map[string]youtube.Video, len(videos))
	for _, video := range videos {
		byID[video.ID] = video
	}
	for _, videoID := range retained {
		video, ok := byID[videoID]
		if !ok {
			c.logger.Info("video metadata missing; skipping",
				logging.String(logging.FieldVideoID, videoID),
				logging.String(logging.FieldEventType, "video_skipped"),
			)
			continue
		}
		category, err := c.categoryName(ctx, video.CategoryID)
		if err != nil {
			return nil, c.endChannel(ctx, "video category", err)
		}
		records = append(records, checkpoint.Record{
			Title:      video.Title,
			Category:   category,
			Transcript: texts[videoID],
		})
	}
	return records, nil
}

// fetchTranscript returns ok=false for videos that are skipped. A transient
// parse failure is retried exactly once after the backoff.
func (c *Collector) fetchTranscript(ctx context.Context, videoID string) (string, bool, error) {
	logger := c.logger.With(logging.String(logging.FieldVideoID, videoID))
	for attempt := 1; ; attempt++ {
		fragments, err := c.transcripts.Fetch(ctx, videoID, c.language)
		switch {
		case err == nil:
			text := textutil.JoinFragments(fragments)
			if text == "" {
				logger.Info("transcript empty; skipping", logging.String(logging.FieldEventType, "video_skipped"))
				return "", false, nil
			}
			logger.Debug("transcript downloaded", logging.Int("fragments", len(fragments)))
			return text, true, nil
		case ctx.Err() != nil:
			return "", false, ctx.Err()
		case services.IsQuota(err):
			c.pauseForQuota("transcript "+videoID, err)
			return "", false, nil
		case errors.Is(err, transcript.ErrTranscriptsDisabled):
			logger.Info("transcripts disabled; skipping", logging.String(logging.FieldEventType, "video_skipped"))
			return "", false, nil
		case errors.Is(err, transcript.ErrNoTranscript):
			logger.Info("no transcript in target language; skipping",
				logging.String(logging.FieldEventType, "video_skipped"),
				logging.String("language", c.language),
			)
			return "", false, nil
		case errors.Is(err, transcript.ErrTransientParse):
			if attempt > 1 {
				logging.WarnWithContext(logger, "transcript retry failed; skipping", "video_skipped",
					logging.Error(err),
					logging.String(logging.FieldImpact, "video left out of the corpus"),
				)
				return "", false, nil
			}
			logger.Info("transcript parse failed; retrying after backoff",
				logging.String(logging.FieldEventType, "transcript_retry"),
				logging.Duration("backoff", c.backoff),
			)
			if err := c.sleep(ctx, c.backoff); err != nil {
				return "", false, err
			}
		default:
			c.state = StateFailed
			return "", false, fmt.Errorf("collector: transcript %s: %w", videoID, err)
		}
	}
}

func (c *Collector) categoryName(ctx context.Context, categoryID string) (string, error) {
	if name, ok := c.categories[categoryID]; ok {
		return name, nil
	}
	name, err := c.metadata.CategoryName(ctx, categoryID)
	if err != nil {
		return "", err
	}
	c.categories[categoryID] = name
	return name, nil
}

// endChannel maps a metadata failure to a terminal state. The platform request
// failing is not retried within a run. Transport failures are returned so the
// channel stays checkpointed instead of being recorded as complete.
func (c *Collector) endChannel(ctx context.Context, operation string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if services.IsQuota(err) {
		c.pauseForQuota(operation, err)
		return nil
	}
	if errors.Is(err, services.ErrTransient) {
		return c.fail(operation, err)
	}
	logging.WarnWithContext(c.logger, "metadata request failed; ending channel", "channel_ended",
		logging.String("operation", operation),
		logging.Error(err),
		logging.String(logging.FieldImpact, "remaining pages of this channel are not collected"),
	)
	c.state = StateDone
	return nil
}

func (c *Collector) pauseForQuota(operation string, err error) {
	logging.WarnWithContext(c.logger, "quota exhausted; pausing channel", "quota_paused",
		logging.String("operation", operation),
		logging.Error(err),
		logging.String(logging.FieldImpact, "collection resumes from the checkpoint on the next run"),
		logging.String(logging.FieldErrorHint, "rerun collect after the daily quota resets"),
	)
	c.state = StateQuotaPaused
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Collector) fail(operation string, err error) error {
	c.state = StateFailed
	return fmt.Errorf("collector: %s %s: %w", operation, c.channelID, err)
}
