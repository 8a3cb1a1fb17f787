package testsupport

import (
	"testing"

	"anglicorpus/internal/checkpoint"
	"anglicorpus/internal/config"
	"anglicorpus/internal/logging"
	"anglicorpus/internal/resultstore"
)

// MustOpenResults opens a resultstore.Store for tests and registers cleanup.
func MustOpenResults(t testing.TB, cfg *config.Config) *resultstore.Store {
	t.Helper()

	store, err := resultstore.Open(cfg)
	if err != nil {
		t.Fatalf("resultstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustCheckpointStore returns a checkpoint store over the config's output
// directory.
func MustCheckpointStore(t testing.TB, cfg *config.Config) *checkpoint.Store {
	t.Helper()

	store, err := checkpoint.NewStore(cfg.Paths.OutputDir, logging.NewNop())
	if err != nil {
		t.Fatalf("checkpoint.NewStore: %v", err)
	}
	return store
}
