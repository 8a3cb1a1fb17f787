package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anglicorpus/internal/checkpoint"
	"anglicorpus/internal/fileutil"
	"anglicorpus/internal/vocab"
)

// WriteChannelList writes ids one per line and returns the file path.
func WriteChannelList(t testing.TB, dir string, ids ...string) string {
	t.Helper()

	path := filepath.Join(dir, "channels.txt")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(ids, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteVocabulary saves entries to path.
func WriteVocabulary(t testing.TB, path string, entries ...vocab.Entry) {
	t.Helper()

	if err := vocab.New(entries).Save(path); err != nil {
		t.Fatalf("save vocabulary %s: %v", path, err)
	}
}

// WriteChannelOutput stores a finished channel file in dir.
func WriteChannelOutput(t testing.TB, dir string, out checkpoint.ChannelOutput) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := fileutil.WriteJSONAtomic(filepath.Join(dir, out.ID+".json"), out); err != nil {
		t.Fatalf("write channel %s: %v", out.ID, err)
	}
}
