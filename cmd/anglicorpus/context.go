package main

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"anglicorpus/internal/checkpoint"
	"anglicorpus/internal/config"
	"anglicorpus/internal/logging"
	"anglicorpus/internal/resultstore"
	"anglicorpus/internal/services"
	"anglicorpus/internal/tagger"
	"anglicorpus/internal/vocab"
)

type commandContext struct {
	configFlag *string
	// command names the subcommand being run, for log records.
	command string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		// A missing .env is the normal case.
		_ = godotenv.Load()

		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// ensureLogger builds the session logger once per invocation and prunes old
// log files.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg, logging.Session{ID: uuid.NewString(), Command: c.command})
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
			return
		}
		logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
			Dir:     cfg.Paths.LogDir,
			Pattern: "*.log",
			Exclude: []string{filepath.Join(cfg.Paths.LogDir, logging.LogFileName)},
		})
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) checkpointStore() (*checkpoint.Store, *slog.Logger, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	store, err := checkpoint.NewStore(c.configValue().Paths.OutputDir, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, logger, nil
}

// withResults opens the results database for the duration of fn.
func (c *commandContext) withResults(fn func(*resultstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := resultstore.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// tagger returns the configured part-of-speech tagger, or nil when no
// tagging service is configured.
func (c *commandContext) tagger() (vocab.Tagger, error) {
	cfg := c.configValue()
	if cfg == nil || cfg.Tagger.URL == "" {
		return nil, nil
	}
	client, err := tagger.New(tagger.Config{
		URL:        cfg.Tagger.URL,
		HTTPClient: &http.Client{Timeout: cfg.TaggerTimeout()},
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "tagger", "init", "", err)
	}
	return tagger.NewCache(client), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
