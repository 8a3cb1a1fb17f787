package resultstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"anglicorpus/internal/analysis"
	"anglicorpus/internal/services"
)

// Run describes one analysis pass over the corpus.
type Run struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	VocabularySize int
	Channels       int
	Transcripts    int
	Options        analysis.Options
	TopN           int
}

const runColumns = "id, started_at, finished_at, vocabulary_size, channels, transcripts, half_width, min_base_length, count_mode, top_n"

// SaveRun stores run and all of its transcript results in one transaction.
func (s *Store) SaveRun(ctx context.Context, run Run, results []analysis.TranscriptResult) error {
	ctx = ensureContext(ctx)
	if run.ID == "" {
		return services.Wrap(services.ErrValidation, "resultstore", "save run", "run id is empty", nil)
	}
	return retryOnBusy(ctx, func() error {
		return s.saveRunTx(ctx, run, results)
	})
}

func (s *Store) saveRunTx(ctx context.Context, run Run, results []analysis.TranscriptResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.VocabularySize,
		run.Channels,
		run.Transcripts,
		run.Options.HalfWidth,
		run.Options.MinBaseLength,
		string(run.Options.CountMode),
		run.TopN,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	resultStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transcript_results (run_id, seq, channel_id, position, title, category, tokens, total)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare transcript insert: %w", err)
	}
	defer resultStmt.Close()
	countStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO word_counts (run_id, seq, loanword, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare count insert: %w", err)
	}
	defer countStmt.Close()
	scoreStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scores (run_id, seq, ordinal, loanword, token_index, window_lower, window_upper, entropy)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare score insert: %w", err)
	}
	defer scoreStmt.Close()

	for seq, result := range results {
		if _, err := resultStmt.ExecContext(ctx, run.ID, seq, result.ChannelID, result.Position,
			result.Title, result.Category, result.Tokens, result.Total()); err != nil {
			return fmt.Errorf("insert transcript result %d: %w", seq, err)
		}
		for word, count := range result.Counts {
			if _, err := countStmt.ExecContext(ctx, run.ID, seq, word, count); err != nil {
				return fmt.Errorf("insert count %q: %w", word, err)
			}
		}
		for ordinal, score := range result.Scores {
			if _, err := scoreStmt.ExecContext(ctx, run.ID, seq, ordinal, score.Loanword, score.Index,
				score.Window.Lower, score.Window.Upper, score.Entropy); err != nil {
				return fmt.Errorf("insert score %q: %w", score.Loanword, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// GetRun returns the run with the given id, or services.ErrNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, services.Wrap(services.ErrNotFound, "resultstore", "get run", fmt.Sprintf("run %q not found", id), nil)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recently finished run, or services.ErrNotFound
// when nothing has been analyzed yet.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, services.Wrap(services.ErrNotFound, "resultstore", "latest run", "no analysis runs recorded", nil)
	}
	return runs[0], nil
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY finished_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LoadResults returns the transcript results of a run in their original
// corpus order.
func (s *Store) LoadResults(ctx context.Context, runID string) ([]analysis.TranscriptResult, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, channel_id, position, title, category, tokens FROM transcript_results
         WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("load transcript results: %w", err)
	}
	var results []analysis.TranscriptResult
	index := make(map[int]int)
	for rows.Next() {
		var (
			seq      int
			result   analysis.TranscriptResult
			title    sql.NullString
			category sql.NullString
		)
		if err := rows.Scan(&seq, &result.ChannelID, &result.Position, &title, &category, &result.Tokens); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transcript result: %w", err)
		}
		result.Title = title.String
		result.Category = category.String
		result.Counts = make(map[string]int)
		index[seq] = len(results)
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate transcript results: %w", err)
	}
	rows.Close()

	if err := s.loadCounts(ctx, runID, results, index); err != nil {
		return nil, err
	}
	if err := s.loadScores(ctx, runID, results, index); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Store) loadCounts(ctx context.Context, runID string, results []analysis.TranscriptResult, index map[int]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, loanword, count FROM word_counts WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("load word counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			seq   int
			word  string
			count int
		)
		if err := rows.Scan(&seq, &word, &count); err != nil {
			return fmt.Errorf("scan word count: %w", err)
		}
		if i, ok := index[seq]; ok {
			results[i].Counts[word] = count
		}
	}
	return rows.Err()
}

func (s *Store) loadScores(ctx context.Context, runID string, results []analysis.TranscriptResult, index map[int]int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, loanword, token_index, window_lower, window_upper, entropy FROM scores
         WHERE run_id = ? ORDER BY seq, ordinal`, runID)
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			seq   int
			score analysis.Score
		)
		if err := rows.Scan(&seq, &score.Loanword, &score.Index, &score.Window.Lower, &score.Window.Upper, &score.Entropy); err != nil {
			return fmt.Errorf("scan score: %w", err)
		}
		if i, ok := index[seq]; ok {
			results[i].Scores = append(results[i].Scores, score)
		}
	}
	return rows.Err()
}

// Report rebuilds the report of a stored run.
func (s *Store) Report(ctx context.Context, run Run) (analysis.Report, error) {
	results, err := s.LoadResults(ctx, run.ID)
	if err != nil {
		return analysis.Report{}, err
	}
	return analysis.BuildReport(results, run.TopN), nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw string
		countMode   string
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&run.VocabularySize,
		&run.Channels,
		&run.Transcripts,
		&run.Options.HalfWidth,
		&run.Options.MinBaseLength,
		&countMode,
		&run.TopN,
	); err != nil {
		return Run{}, err
	}
	run.Options.CountMode = analysis.CountMode(countMode)
	run.StartedAt = parseTime(startedRaw)
	run.FinishedAt = parseTime(finishedRaw)
	return run, nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts
	}
	return time.Time{}
}
