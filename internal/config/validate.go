package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable by every command.
func (c *Config) Validate() error {
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validateTranscripts(); err != nil {
		return err
	}
	if err := c.validateTagger(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	return nil
}

// ValidateCollection checks the settings that only collection needs. It runs
// before any API call so a missing key never costs quota.
func (c *Config) ValidateCollection() error {
	if strings.TrimSpace(c.YouTube.APIKey) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/anglicorpus/config.toml"
		}
		return fmt.Errorf("youtube.api_key is required. Set YOUTUBE_API_KEY env var or edit %s (create with 'anglicorpus config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if err := validateURL("youtube.base_url", c.YouTube.BaseURL); err != nil {
		return err
	}
	if c.YouTube.PageSize < 1 || c.YouTube.PageSize > 50 {
		return errors.New("youtube.page_size must be between 1 and 50")
	}
	if c.YouTube.RequestsPerSecond < 0 {
		return errors.New("youtube.requests_per_second must be >= 0")
	}
	if c.YouTube.RequestTimeout <= 0 {
		return errors.New("youtube.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateTranscripts() error {
	if err := validateURL("transcripts.base_url", c.Transcripts.BaseURL); err != nil {
		return err
	}
	if c.Transcripts.RetryBackoffSeconds < 0 {
		return errors.New("transcripts.retry_backoff_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateTagger() error {
	if c.Tagger.URL == "" {
		return nil
	}
	return validateURL("tagger.url", c.Tagger.URL)
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.WindowHalfWidth <= 0 {
		return errors.New("analysis.window_half_width must be positive")
	}
	if c.Analysis.MinBaseLength < 1 {
		return errors.New("analysis.min_base_length must be >= 1")
	}
	if c.Analysis.TopN <= 0 {
		return errors.New("analysis.top_n must be positive")
	}
	switch c.Analysis.CountMode {
	case CountFirst, CountAll:
	default:
		return fmt.Errorf("analysis.count_mode must be %q or %q", CountFirst, CountAll)
	}
	return nil
}

func validateURL(key, value string) error {
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL", key)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", key)
	}
	return nil
}
