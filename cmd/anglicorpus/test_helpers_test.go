package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"anglicorpus/internal/config"
	"anglicorpus/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("YOUTUBE_API_KEY", "")
	t.Setenv("ANGLICORPUS_TAGGER_URL", "")

	configPath := filepath.Join(base, "anglicorpus.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "[paths]\noutput_dir = %q\nvocabulary_path = %q\nresults_db = %q\nlog_dir = %q\n\n",
		cfg.Paths.OutputDir, cfg.Paths.VocabularyPath, cfg.Paths.ResultsDB, cfg.Paths.LogDir)
	fmt.Fprintf(&b, "[youtube]\napi_key = %q\nbase_url = %q\nrequests_per_second = %s\n\n",
		cfg.YouTube.APIKey, cfg.YouTube.BaseURL, strconv.FormatFloat(cfg.YouTube.RequestsPerSecond, 'f', 1, 64))
	fmt.Fprintf(&b, "[transcripts]\nbase_url = %q\nretry_backoff_seconds = %d\n\n",
		cfg.Transcripts.BaseURL, cfg.Transcripts.RetryBackoffSeconds)
	fmt.Fprintf(&b, "[tagger]\nurl = %q\n\n", cfg.Tagger.URL)
	fmt.Fprintf(&b, "[analysis]\ncount_mode = %q\n\n", cfg.Analysis.CountMode)
	b.WriteString("[logging]\nlevel = \"error\"\n")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
