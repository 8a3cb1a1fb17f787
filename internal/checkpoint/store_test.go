package checkpoint

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"anglicorpus/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "output"), logging.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestLoadWithoutCheckpoint(t *testing.T) {
	store := newTestStore(t)
	resume, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resume != nil {
		t.Fatalf("expected no checkpoint, got %+v", resume)
	}
}

func TestSaveLoadRoundTripPreservesText(t *testing.T) {
	store := newTestStore(t)
	records := []Record{
		{Title: "Grüße aus Köln", Category: "Unterhaltung", Transcript: "das ist ein Meeting über Straße und Maß — „super“ 🎉"},
		{Title: "Teil 2", Category: "Bildung", Transcript: "<b>nicht</b> escapen & so"},
	}
	out := ChannelOutput{ID: "UCabc", Transcripts: records}
	if err := store.Save(out, &Checkpoint{ChannelID: "UCabc", Cursor: "tok123"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	resume, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resume == nil {
		t.Fatal("expected checkpoint")
	}
	if resume.Checkpoint.ChannelID != "UCabc" || resume.Checkpoint.Cursor != "tok123" {
		t.Fatalf("unexpected checkpoint: %+v", resume.Checkpoint)
	}
	if !reflect.DeepEqual(resume.Checkpoint.Records, records) {
		t.Fatalf("checkpoint records changed: %+v", resume.Checkpoint.Records)
	}
	if !reflect.DeepEqual(resume.Output.Transcripts, records) || resume.Output.ID != "UCabc" {
		t.Fatalf("output changed: %+v", resume.Output)
	}
	if resume.OutputMissing {
		t.Fatal("output should be present")
	}
	if resume.Checkpoint.UpdatedAt.IsZero() {
		t.Fatal("expected UpdatedAt to be stamped")
	}

	raw, err := os.ReadFile(store.ChannelPath("UCabc"))
	if err != nil {
		t.Fatalf("read channel file: %v", err)
	}
	var decoded ChannelOutput
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode channel file: %v", err)
	}
	if !reflect.DeepEqual(decoded, out) {
		t.Fatalf("channel file mismatch: %+v", decoded)
	}
}

func TestSaveCompleteClearsCheckpoint(t *testing.T) {
	store := newTestStore(t)
	out := ChannelOutput{ID: "UCdone", Transcripts: []Record{{Title: "a", Category: "b", Transcript: "c"}}}
	if err := store.Save(out, &Checkpoint{ChannelID: "UCdone", Cursor: "next"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(out, nil); err != nil {
		t.Fatalf("Save complete: %v", err)
	}
	if err := store.Save(out, nil); err != nil {
		t.Fatalf("Save complete twice: %v", err)
	}

	resume, err := store.Load()
	if err != nil || resume != nil {
		t.Fatalf("expected cleared checkpoint, got %+v %v", resume, err)
	}
	completed, err := store.Completed()
	if err != nil {
		t.Fatalf("Completed: %v", err)
	}
	if !reflect.DeepEqual(completed, []string{"UCdone"}) {
		t.Fatalf("completed = %v", completed)
	}
	if _, err := os.Stat(store.ChannelPath("UCdone")); err != nil {
		t.Fatalf("expected channel output to remain: %v", err)
	}
}

func TestLoadRebuildsMissingOutput(t *testing.T) {
	store := newTestStore(t)
	records := []Record{{Title: "x", Category: "y", Transcript: "z"}}
	if err := store.Save(ChannelOutput{ID: "UCgone", Transcripts: records}, &Checkpoint{ChannelID: "UCgone", Cursor: "p2"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.Remove(store.ChannelPath("UCgone")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	resume, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !resume.OutputMissing {
		t.Fatal("expected OutputMissing")
	}
	if !reflect.DeepEqual(resume.Output.Transcripts, records) {
		t.Fatalf("expected records from checkpoint, got %+v", resume.Output.Transcripts)
	}
}

func TestLoadDiscardsStaleCheckpoint(t *testing.T) {
	store := newTestStore(t)
	out := ChannelOutput{ID: "UCx"}
	if err := store.Save(out, nil); err != nil {
		t.Fatalf("Save complete: %v", err)
	}
	// Simulate a crash between marking completion and clearing progress.
	if err := store.Save(out, &Checkpoint{ChannelID: "UCx", Cursor: "late"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	resume, err := store.Load()
	if err != nil || resume != nil {
		t.Fatalf("expected stale checkpoint discarded, got %+v %v", resume, err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), progressFile)); !os.IsNotExist(err) {
		t.Fatalf("expected progress file removed, stat err=%v", err)
	}
}

func TestPeekLeavesStaleCheckpointInPlace(t *testing.T) {
	store := newTestStore(t)
	if cp, stale, err := store.Peek(); err != nil || cp != nil || stale {
		t.Fatalf("expected empty peek, got %+v %v %v", cp, stale, err)
	}

	out := ChannelOutput{ID: "UCx"}
	if err := store.Save(out, nil); err != nil {
		t.Fatalf("Save complete: %v", err)
	}
	if err := store.Save(out, &Checkpoint{ChannelID: "UCx", Cursor: "late"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	cp, stale, err := store.Peek()
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if cp == nil || cp.ChannelID != "UCx" || cp.Cursor != "late" || !stale {
		t.Fatalf("unexpected peek: %+v stale=%v", cp, stale)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), progressFile)); err != nil {
		t.Fatalf("expected progress file kept, stat err=%v", err)
	}
}

func TestSaveRejectsMismatchedChannel(t *testing.T) {
	store := newTestStore(t)
	err := store.Save(ChannelOutput{ID: "A"}, &Checkpoint{ChannelID: "B"})
	if err == nil {
		t.Fatal("expected mismatch error")
	}
	if err := store.Save(ChannelOutput{}, nil); err == nil {
		t.Fatal("expected missing id error")
	}
}

func TestLoadAllSkipsBookkeepingFiles(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(ChannelOutput{ID: "UCb", Transcripts: []Record{{Title: "b"}}}, nil); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ChannelOutput{ID: "UCa", Transcripts: []Record{{Title: "a"}}}, &Checkpoint{ChannelID: "UCa"}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(store.Dir(), "notes.json"), []byte(`["not", "a", "channel"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	outputs, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(outputs) != 2 || outputs[0].ID != "UCa" || outputs[1].ID != "UCb" {
		t.Fatalf("unexpected outputs: %+v", outputs)
	}
}

func TestLockIsExclusive(t *testing.T) {
	store := newTestStore(t)
	unlock, err := store.Lock()
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if _, err := store.Lock(); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	unlock, err = store.Lock()
	if err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	_ = unlock()
}
