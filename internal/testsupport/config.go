package testsupport

import (
	"path/filepath"
	"testing"

	"anglicorpus/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.YouTube.APIKey = "test"
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.VocabularyPath = filepath.Join(base, "anglicisms.json")
	cfgVal.Paths.ResultsDB = filepath.Join(base, "output", "analysis.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Transcripts.RetryBackoffSeconds = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAPIKey sets the platform API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.YouTube.APIKey = key
	}
}

// WithYouTubeServer points both the metadata API and the transcript fetcher
// at a test server.
func WithYouTubeServer(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.YouTube.BaseURL = baseURL
		b.cfg.YouTube.RequestsPerSecond = 0
		b.cfg.Transcripts.BaseURL = baseURL
	}
}

// WithTagger sets the tagging service endpoint on the test config.
func WithTagger(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tagger.URL = url
	}
}

// WithCountMode overrides the analysis count mode.
func WithCountMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.CountMode = mode
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
