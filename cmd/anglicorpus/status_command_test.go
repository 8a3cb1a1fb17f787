package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"anglicorpus/internal/checkpoint"
	"anglicorpus/internal/testsupport"
)

func TestStatusShowsCheckpointAndLatestRun(t *testing.T) {
	env := setupCLITestEnv(t)
	seedCorpus(t, env)

	store := testsupport.MustCheckpointStore(t, env.cfg)
	done := checkpoint.ChannelOutput{ID: "UCdone", Transcripts: []checkpoint.Record{}}
	if err := store.Save(done, nil); err != nil {
		t.Fatalf("save completed channel: %v", err)
	}
	partial := checkpoint.ChannelOutput{ID: "UCpartial", Transcripts: []checkpoint.Record{{Title: "Folge 1", Transcript: "Hallo"}}}
	if err := store.Save(partial, &checkpoint.Checkpoint{ChannelID: "UCpartial", Cursor: "CAUQAA"}); err != nil {
		t.Fatalf("save checkpoint: %v", err)
	}

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "[OK] configured")
	requireContains(t, out, "2 entries")
	requireContains(t, out, "1 channels")
	requireContains(t, out, "UCpartial (1 records, next page: CAUQAA)")
	requireContains(t, out, "Latest run:")

	if _, _, err := runCLI(t, []string{"analyze", "--json"}, env.configPath); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	out, _, err = runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	var snapshot statusSnapshot
	if err := json.Unmarshal([]byte(out), &snapshot); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if snapshot.InProgress != "UCpartial" || snapshot.Cursor != "CAUQAA" {
		t.Fatalf("unexpected checkpoint in status %+v", snapshot)
	}
	if len(snapshot.Completed) != 1 || snapshot.Completed[0] != "UCdone" {
		t.Fatalf("unexpected completed channels %v", snapshot.Completed)
	}
	if snapshot.LatestRun == nil || snapshot.LatestRun.Transcripts == 0 {
		t.Fatalf("expected latest run in status, got %+v", snapshot.LatestRun)
	}
}

func TestStatusWithoutVocabularyWarns(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithAPIKey(""))
	env.cfg.Paths.VocabularyPath = env.cfg.Paths.VocabularyPath + ".missing"
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "[ERROR] missing")
	requireContains(t, out, "[WARN] "+env.cfg.Paths.VocabularyPath+" not found")
	requireContains(t, out, "In progress:")
	requireContains(t, out, "[OK] none")
}

func TestStatusDoesNotDiscardStaleCheckpoint(t *testing.T) {
	env := setupCLITestEnv(t)
	store := testsupport.MustCheckpointStore(t, env.cfg)
	out := checkpoint.ChannelOutput{ID: "UCdone", Transcripts: []checkpoint.Record{}}
	if err := store.Save(out, nil); err != nil {
		t.Fatalf("save completed channel: %v", err)
	}
	if err := store.Save(out, &checkpoint.Checkpoint{ChannelID: "UCdone", Cursor: "late"}); err != nil {
		t.Fatalf("save checkpoint: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, stdout, "stale checkpoint for UCdone")
	if _, err := os.Stat(filepath.Join(env.cfg.Paths.OutputDir, "progress.json")); err != nil {
		t.Fatalf("status must leave progress.json in place: %v", err)
	}
}
