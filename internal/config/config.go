package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	OutputDir      string `toml:"output_dir"`
	VocabularyPath string `toml:"vocabulary_path"`
	ResultsDB      string `toml:"results_db"`
	LogDir         string `toml:"log_dir"`
}

// YouTube contains configuration for the platform metadata API.
type YouTube struct {
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	PageSize          int     `toml:"page_size"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	RequestTimeout    int     `toml:"request_timeout"`
}

// Transcripts contains configuration for caption retrieval.
type Transcripts struct {
	Language            string `toml:"language"`
	BaseURL             string `toml:"base_url"`
	RetryBackoffSeconds int    `toml:"retry_backoff_seconds"`
}

// Tagger contains configuration for the part-of-speech tagging service.
// An empty URL disables remote tagging.
type Tagger struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Analysis contains the anglicism scoring parameters.
type Analysis struct {
	WindowHalfWidth int    `toml:"window_half_width"`
	MinBaseLength   int    `toml:"min_base_length"`
	TopN            int    `toml:"top_n"`
	CountMode       string `toml:"count_mode"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for anglicorpus.
//
// Configuration sections by subsystem:
//   - Paths: corpus output, vocabulary file, results database, logs
//   - YouTube: metadata API credentials, paging, and pacing
//   - Transcripts: caption language and retry backoff
//   - Tagger: part-of-speech service endpoint
//   - Analysis: window width, minimum loanword length, report size
//   - Logging: log format, level, and retention
type Config struct {
	Paths       Paths       `toml:"paths"`
	YouTube     YouTube     `toml:"youtube"`
	Transcripts Transcripts `toml:"transcripts"`
	Tagger      Tagger      `toml:"tagger"`
	Analysis    Analysis    `toml:"analysis"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/anglicorpus/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("anglicorpus.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RetryBackoff returns the pause before the single transcript retry.
func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.Transcripts.RetryBackoffSeconds) * time.Second
}

// YouTubeTimeout returns the per-request timeout for platform API calls.
func (c *Config) YouTubeTimeout() time.Duration {
	return time.Duration(c.YouTube.RequestTimeout) * time.Second
}

// TaggerTimeout returns the per-request timeout for the tagging service.
func (c *Config) TaggerTimeout() time.Duration {
	return time.Duration(c.Tagger.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
