package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"anglicorpus/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	workDir := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Chdir(workDir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantOutput := filepath.Join(workDir, "output")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, wantOutput)
	}
	if cfg.Paths.VocabularyPath != filepath.Join(workDir, "anglicisms.json") {
		t.Fatalf("unexpected vocabulary path: %q", cfg.Paths.VocabularyPath)
	}
	if cfg.Paths.ResultsDB != filepath.Join(wantOutput, "analysis.db") {
		t.Fatalf("unexpected results db: %q", cfg.Paths.ResultsDB)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, ".local", "share", "anglicorpus", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.YouTube.PageSize != 50 {
		t.Fatalf("expected page size 50, got %d", cfg.YouTube.PageSize)
	}
	if cfg.Transcripts.Language != "de" {
		t.Fatalf("expected transcript language de, got %q", cfg.Transcripts.Language)
	}
	if cfg.Transcripts.RetryBackoffSeconds != 10 {
		t.Fatalf("expected retry backoff 10, got %d", cfg.Transcripts.RetryBackoffSeconds)
	}
	if cfg.Analysis.WindowHalfWidth != 25 || cfg.Analysis.MinBaseLength != 3 || cfg.Analysis.TopN != 15 {
		t.Fatalf("unexpected analysis defaults: %+v", cfg.Analysis)
	}
	if cfg.Analysis.CountMode != config.CountAll {
		t.Fatalf("unexpected count mode: %q", cfg.Analysis.CountMode)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "anglicorpus.toml")

	type payload struct {
		Paths struct {
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		YouTube struct {
			APIKey   string `toml:"api_key"`
			PageSize int    `toml:"page_size"`
		} `toml:"youtube"`
		Transcripts struct {
			Language string `toml:"language"`
		} `toml:"transcripts"`
		Analysis struct {
			WindowHalfWidth int    `toml:"window_half_width"`
			CountMode       string `toml:"count_mode"`
		} `toml:"analysis"`
	}
	custom := payload{}
	custom.Paths.OutputDir = filepath.Join(tempDir, "corpus")
	custom.YouTube.APIKey = "abc123"
	custom.YouTube.PageSize = 20
	custom.Transcripts.Language = "de-AT"
	custom.Analysis.WindowHalfWidth = 10
	custom.Analysis.CountMode = "FIRST"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.YouTube.APIKey != "abc123" {
		t.Fatalf("expected API key from file, got %q", cfg.YouTube.APIKey)
	}
	if cfg.YouTube.PageSize != 20 {
		t.Fatalf("expected page size 20, got %d", cfg.YouTube.PageSize)
	}
	if cfg.Transcripts.Language != "de" {
		t.Fatalf("expected language reduced to base tag, got %q", cfg.Transcripts.Language)
	}
	if cfg.Analysis.WindowHalfWidth != 10 {
		t.Fatalf("expected window half width 10, got %d", cfg.Analysis.WindowHalfWidth)
	}
	if cfg.Analysis.CountMode != config.CountFirst {
		t.Fatalf("expected count mode first, got %q", cfg.Analysis.CountMode)
	}
	if cfg.Paths.ResultsDB != filepath.Join(tempDir, "corpus", "analysis.db") {
		t.Fatalf("expected results db under custom output dir, got %q", cfg.Paths.ResultsDB)
	}
	if err := cfg.ValidateCollection(); err != nil {
		t.Fatalf("ValidateCollection returned error: %v", err)
	}
}

func TestConfigFileAPIKeyWinsOverEnv(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "anglicorpus.toml")
	if err := os.WriteFile(configPath, []byte("[youtube]\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("YOUTUBE_API_KEY", "env-key")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.YouTube.APIKey != "file-key" {
		t.Fatalf("expected file key, got %q", cfg.YouTube.APIKey)
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", " env-key ")
	t.Setenv("ANGLICORPUS_TAGGER_URL", "http://localhost:9000/tag")
	t.Setenv("HOME", t.TempDir())

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.YouTube.APIKey != "env-key" {
		t.Fatalf("expected trimmed env key, got %q", cfg.YouTube.APIKey)
	}
	if cfg.Tagger.URL != "http://localhost:9000/tag" {
		t.Fatalf("expected tagger url from env, got %q", cfg.Tagger.URL)
	}
}

func TestValidateCollectionRequiresAPIKey(t *testing.T) {
	cfg := config.Default()
	err := cfg.ValidateCollection()
	if err == nil {
		t.Fatal("expected missing api key error")
	}
	if !strings.Contains(err.Error(), "youtube.api_key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"page size", func(c *config.Config) { c.YouTube.PageSize = 80 }, "youtube.page_size"},
		{"window", func(c *config.Config) { c.Analysis.WindowHalfWidth = 0 }, "analysis.window_half_width"},
		{"top n", func(c *config.Config) { c.Analysis.TopN = -1 }, "analysis.top_n"},
		{"count mode", func(c *config.Config) { c.Analysis.CountMode = "most" }, "analysis.count_mode"},
		{"tagger url", func(c *config.Config) { c.Tagger.URL = "ftp://tagger" }, "tagger.url"},
		{"backoff", func(c *config.Config) { c.Transcripts.RetryBackoffSeconds = -1 }, "transcripts.retry_backoff_seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error for %s", tt.name)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadRejectsInvalidLanguage(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "anglicorpus.toml")
	if err := os.WriteFile(configPath, []byte("[transcripts]\nlanguage = \"not a tag!\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected language parse error")
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Analysis.TopN != 15 {
		t.Fatalf("unexpected sample top_n: %d", cfg.Analysis.TopN)
	}
}
