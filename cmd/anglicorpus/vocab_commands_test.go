package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"anglicorpus/internal/services"
	"anglicorpus/internal/testsupport"
	"anglicorpus/internal/vocab"
)

func loadVocabulary(t *testing.T, path string) []vocab.Entry {
	t.Helper()
	v, err := vocab.Load(path)
	if err != nil {
		t.Fatalf("load vocabulary: %v", err)
	}
	return v.Entries()
}

func TestVocabEditingCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	steps := [][]string{
		{"vocab", "add", "Meeting", "--pos", "noun"},
		{"vocab", "add", "cool", "--pos", "ADJ"},
		{"vocab", "add", "Feedback"},
		{"vocab", "set-pos", "Meeting", "VERB"},
		{"vocab", "remove", "cool"},
	}
	for _, args := range steps {
		if _, _, err := runCLI(t, args, env.configPath); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	entries := loadVocabulary(t, env.cfg.Paths.VocabularyPath)
	want := []vocab.Entry{{Base: "Meeting", POS: vocab.Verb}, {Base: "Feedback", POS: vocab.Other}}
	if len(entries) != len(want) {
		t.Fatalf("expected %v, got %v", want, entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d: expected %v, got %v", i, want[i], entries[i])
		}
	}

	out, _, err := runCLI(t, []string{"vocab", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("vocab list: %v", err)
	}
	requireContains(t, out, "Meeting")
	requireContains(t, out, "2 entries")
	requireNotContains(t, out, "cool")

	out, _, err = runCLI(t, []string{"vocab", "show", "Meeting"}, env.configPath)
	if err != nil {
		t.Fatalf("vocab show: %v", err)
	}
	requireContains(t, out, "POS:      VERB")
	requireContains(t, out, "geMeetingt")

	_, _, err = runCLI(t, []string{"vocab", "add", "Meeting", "--pos", "NOUN"}, env.configPath)
	if !errors.Is(err, vocab.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	_, _, err = runCLI(t, []string{"vocab", "remove", "Laptop"}, env.configPath)
	if !errors.Is(err, vocab.ErrUnknownWord) {
		t.Fatalf("expected unknown word error, got %v", err)
	}
}

func TestVocabListFiltersByPOS(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteVocabulary(t, env.cfg.Paths.VocabularyPath,
		vocab.Entry{Base: "Computer", POS: vocab.Noun},
		vocab.Entry{Base: "chatten", POS: vocab.Verb},
	)

	out, _, err := runCLI(t, []string{"vocab", "list", "--pos", "verb", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("vocab list: %v", err)
	}
	var entries []vocab.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(entries) != 1 || entries[0].Base != "chatten" {
		t.Fatalf("unexpected filtered entries %v", entries)
	}
}

func TestVocabImportTagsUntaggedWords(t *testing.T) {
	var calls atomic.Int32
	tagSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Word string `json:"word"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode tag request: %v", err)
		}
		pos := "NOUN"
		if req.Word == "cool" {
			pos = "ADJ"
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"pos": pos})
	}))
	t.Cleanup(tagSrv.Close)

	env := setupCLITestEnv(t, testsupport.WithTagger(tagSrv.URL))
	testsupport.WriteVocabulary(t, env.cfg.Paths.VocabularyPath, vocab.Entry{Base: "Meeting", POS: vocab.Verb})

	list := filepath.Join(env.baseDir, "words.txt")
	content := "# imported list\nMeeting\nupdaten\tVERB\ncool:\nComputer\n\nComputer\n"
	if err := os.WriteFile(list, []byte(content), 0o644); err != nil {
		t.Fatalf("write word list: %v", err)
	}

	out, _, err := runCLI(t, []string{"vocab", "import", list}, env.configPath)
	if err != nil {
		t.Fatalf("vocab import: %v", err)
	}
	requireContains(t, out, "added 3 (tagged 2, untagged 0)")
	if n := calls.Load(); n != 2 {
		t.Fatalf("expected 2 tagger calls, got %d", n)
	}

	entries := loadVocabulary(t, env.cfg.Paths.VocabularyPath)
	want := map[string]vocab.POS{
		"Computer": vocab.Noun,
		"Meeting":  vocab.Verb,
		"cool":     vocab.Adjective,
		"updaten":  vocab.Verb,
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), entries)
	}
	for i, entry := range entries {
		if want[entry.Base] != entry.POS {
			t.Fatalf("entry %s: expected %s, got %s", entry.Base, want[entry.Base], entry.POS)
		}
		if i > 0 && entries[i-1].Base > entry.Base {
			t.Fatalf("entries not sorted: %v", entries)
		}
	}
}

func TestVocabImportWithoutTaggerStoresOther(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLIWithInput(t, []string{"vocab", "import", "-"}, env.configPath, "Laptop\n")
	if err != nil {
		t.Fatalf("vocab import from stdin: %v", err)
	}
	requireContains(t, out, "untagged 1")
	entries := loadVocabulary(t, env.cfg.Paths.VocabularyPath)
	if len(entries) != 1 || entries[0].POS != vocab.Other {
		t.Fatalf("expected Laptop stored as OTHER, got %v", entries)
	}
}

func TestVocabMissingFileIsConfigurationError(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"vocab", "list"}, env.configPath)
	if code := services.ExitCode(err); code != services.ExitConfiguration {
		t.Fatalf("expected exit code %d, got %d (%v)", services.ExitConfiguration, code, err)
	}
}
