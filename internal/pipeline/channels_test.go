package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anglicorpus/internal/services"
)

func TestReadChannelList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.txt")
	content := "# German tech channels\nUCa\n\n  UCb  \nUCa\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	channels, err := ReadChannelList(path)
	if err != nil {
		t.Fatalf("ReadChannelList failed: %v", err)
	}
	if strings.Join(channels, ",") != "UCa,UCb" {
		t.Fatalf("unexpected channels %v", channels)
	}
}

func TestReadChannelListMissingFile(t *testing.T) {
	_, err := ReadChannelList(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if services.ExitCode(err) != services.ExitConfiguration {
		t.Fatalf("expected configuration exit code, got %d", services.ExitCode(err))
	}
}

func TestReadChannelListEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.txt")
	if err := os.WriteFile(path, []byte("# nothing yet\n\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	if _, err := ReadChannelList(path); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
