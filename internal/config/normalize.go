package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeYouTube()
	if err := c.normalizeTranscripts(); err != nil {
		return err
	}
	c.normalizeTagger()
	c.normalizeAnalysis()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.VocabularyPath) == "" {
		c.Paths.VocabularyPath = defaultVocabularyPath
	}
	if c.Paths.VocabularyPath, err = expandPath(c.Paths.VocabularyPath); err != nil {
		return fmt.Errorf("paths.vocabulary_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.ResultsDB) == "" {
		c.Paths.ResultsDB = filepath.Join(c.Paths.OutputDir, defaultResultsFile)
	}
	if c.Paths.ResultsDB, err = expandPath(c.Paths.ResultsDB); err != nil {
		return fmt.Errorf("paths.results_db: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeYouTube() {
	c.YouTube.APIKey = strings.TrimSpace(c.YouTube.APIKey)
	if c.YouTube.APIKey == "" {
		if value, ok := os.LookupEnv("YOUTUBE_API_KEY"); ok {
			c.YouTube.APIKey = strings.TrimSpace(value)
		}
	}
	c.YouTube.BaseURL = strings.TrimRight(strings.TrimSpace(c.YouTube.BaseURL), "/")
	if c.YouTube.BaseURL == "" {
		c.YouTube.BaseURL = defaultYouTubeBaseURL
	}
	if c.YouTube.PageSize == 0 {
		c.YouTube.PageSize = defaultYouTubePageSize
	}
	if c.YouTube.RequestTimeout == 0 {
		c.YouTube.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeTranscripts() error {
	lang := strings.TrimSpace(c.Transcripts.Language)
	if lang == "" {
		lang = defaultTranscriptLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("transcripts.language: %w", err)
	}
	base, _ := tag.Base()
	c.Transcripts.Language = base.String()
	c.Transcripts.BaseURL = strings.TrimRight(strings.TrimSpace(c.Transcripts.BaseURL), "/")
	if c.Transcripts.BaseURL == "" {
		c.Transcripts.BaseURL = defaultTranscriptBaseURL
	}
	return nil
}

func (c *Config) normalizeTagger() {
	c.Tagger.URL = strings.TrimSpace(c.Tagger.URL)
	if c.Tagger.URL == "" {
		if value, ok := os.LookupEnv("ANGLICORPUS_TAGGER_URL"); ok {
			c.Tagger.URL = strings.TrimSpace(value)
		}
	}
	if c.Tagger.TimeoutSeconds <= 0 {
		c.Tagger.TimeoutSeconds = defaultTaggerTimeout
	}
}

func (c *Config) normalizeAnalysis() {
	c.Analysis.CountMode = strings.ToLower(strings.TrimSpace(c.Analysis.CountMode))
	if c.Analysis.CountMode == "" {
		c.Analysis.CountMode = CountAll
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
