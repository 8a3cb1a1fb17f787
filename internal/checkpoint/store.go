package checkpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"anglicorpus/internal/fileutil"
	"anglicorpus/internal/logging"
	"anglicorpus/internal/textutil"
)

const (
	progressFile  = "progress.json"
	completedFile = "completed.json"
)

// Store reads and writes collection state under one output directory.
type Store struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore prepares dir for use.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("checkpoint: output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("checkpoint: create output directory: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "checkpoint"),
		now:    time.Now,
	}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string { return s.dir }

// ChannelPath returns the output file for channelID.
func (s *Store) ChannelPath(channelID string) string {
	return filepath.Join(s.dir, textutil.SanitizeFileName(channelID)+".json")
}

// Load returns the in-flight checkpoint, or nil when no channel is mid
// collection. A checkpoint for a channel already marked complete is stale and
// is discarded.
func (s *Store) Load() (*Resume, error) {
	var cp Checkpoint
	if err := fileutil.ReadJSON(filepath.Join(s.dir, progressFile), &cp); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("checkpoint: load progress: %w", err)
	}
	if cp.ChannelID == "" {
		return nil, errors.New("checkpoint: load progress: missing channel id")
	}

	completed, err := s.Completed()
	if err != nil {
		return nil, err
	}
	if slices.Contains(completed, cp.ChannelID) {
		s.logger.Info("discarding checkpoint of completed channel",
			logging.String(logging.FieldChannelID, cp.ChannelID),
			logging.String(logging.FieldEventType, "checkpoint_stale"),
		)
		if err := s.clearProgress(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	resume := &Resume{Checkpoint: cp, Output: ChannelOutput{ID: cp.ChannelID}}
	var out ChannelOutput
	switch err := fileutil.ReadJSON(s.ChannelPath(cp.ChannelID), &out); {
	case errors.Is(err, fs.ErrNotExist):
		resume.OutputMissing = true
		logging.WarnWithContext(s.logger, "channel output missing for checkpoint", "checkpoint_output_missing",
			logging.String(logging.FieldChannelID, cp.ChannelID),
			logging.String("path", s.ChannelPath(cp.ChannelID)),
			logging.Int("checkpoint_records", len(cp.Records)),
			logging.String(logging.FieldImpact, "output is rebuilt from the checkpoint records"),
			logging.String(logging.FieldErrorHint, "check whether the output directory was edited while collection was paused"),
		)
	case err != nil:
		return nil, fmt.Errorf("checkpoint: load channel %s: %w", cp.ChannelID, err)
	case len(out.Transcripts) != len(cp.Records):
		logging.WarnWithContext(s.logger, "channel output and checkpoint disagree", "checkpoint_output_mismatch",
			logging.String(logging.FieldChannelID, cp.ChannelID),
			logging.Int("output_records", len(out.Transcripts)),
			logging.Int("checkpoint_records", len(cp.Records)),
			logging.String(logging.FieldImpact, "checkpoint records win; output is rewritten on the next save"),
		)
	}
	resume.Output.Transcripts = slices.Clone(cp.Records)
	if resume.Output.Transcripts == nil {
		resume.Output.Transcripts = []Record{}
	}
	return resume, nil
}

// Peek returns the stored checkpoint, or nil when there is none. Unlike Load
// it never modifies the directory: stale reports a checkpoint whose channel
// is already in the completed ledger, which Load would discard.
func (s *Store) Peek() (cp *Checkpoint, stale bool, err error) {
	var stored Checkpoint
	if err := fileutil.ReadJSON(filepath.Join(s.dir, progressFile), &stored); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("checkpoint: peek progress: %w", err)
	}
	completed, err := s.Completed()
	if err != nil {
		return nil, false, err
	}
	return &stored, slices.Contains(completed, stored.ChannelID), nil
}

// Save persists out and the checkpoint. A nil checkpoint means the channel is
// complete: the channel is added to the completed ledger and the checkpoint
// is cleared.
func (s *Store) Save(out ChannelOutput, cp *Checkpoint) error {
	if out.ID == "" {
		return errors.New("checkpoint: save: channel output has no id")
	}
	if out.Transcripts == nil {
		out.Transcripts = []Record{}
	}
	if cp != nil {
		if cp.ChannelID != out.ID {
			return fmt.Errorf("checkpoint: save: checkpoint channel %q does not match output %q", cp.ChannelID, out.ID)
		}
		snapshot := *cp
		snapshot.Records = out.Transcripts
		snapshot.UpdatedAt = s.now().UTC()
		if err := fileutil.WriteJSONAtomic(filepath.Join(s.dir, progressFile), snapshot); err != nil {
			return fmt.Errorf("checkpoint: save progress: %w", err)
		}
		if err := fileutil.WriteJSONAtomic(s.ChannelPath(out.ID), out); err != nil {
			return fmt.Errorf("checkpoint: save channel %s: %w", out.ID, err)
		}
		return nil
	}

	if err := fileutil.WriteJSONAtomic(s.ChannelPath(out.ID), out); err != nil {
		return fmt.Errorf("checkpoint: save channel %s: %w", out.ID, err)
	}
	if err := s.markCompleted(out.ID); err != nil {
		return err
	}
	return s.clearProgress()
}

// Completed returns the channels whose collection finished, in completion order.
func (s *Store) Completed() ([]string, error) {
	var ledger completedLedger
	if err := fileutil.ReadJSON(filepath.Join(s.dir, completedFile), &ledger); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("checkpoint: load completed ledger: %w", err)
	}
	return ledger.Channels, nil
}

// LoadAll returns every channel output in the directory, ordered by file name.
// Files that are not channel outputs are skipped with a warning.
func (s *Store) LoadAll() ([]ChannelOutput, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("checkpoint: list outputs: %w", err)
	}
	sort.Strings(paths)
	outputs := make([]ChannelOutput, 0, len(paths))
	for _, path := range paths {
		switch filepath.Base(path) {
		case progressFile, completedFile:
			continue
		}
		var out ChannelOutput
		if err := fileutil.ReadJSON(path, &out); err != nil || out.ID == "" {
			logging.WarnWithContext(s.logger, "skipping unreadable channel output", "channel_output_invalid",
				logging.String("path", path),
				logging.Any("error", err),
				logging.String(logging.FieldImpact, "transcripts in this file are excluded from analysis"),
			)
			continue
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func (s *Store) markCompleted(channelID string) error {
	completed, err := s.Completed()
	if err != nil {
		return err
	}
	if slices.Contains(completed, channelID) {
		return nil
	}
	ledger := completedLedger{Channels: append(completed, channelID)}
	if err := fileutil.WriteJSONAtomic(filepath.Join(s.dir, completedFile), ledger); err != nil {
		return fmt.Errorf("checkpoint: save completed ledger: %w", err)
	}
	return nil
}

func (s *Store) clearProgress() error {
	if err := os.Remove(filepath.Join(s.dir, progressFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checkpoint: clear progress: %w", err)
	}
	return nil
}
