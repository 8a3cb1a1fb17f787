package config

const (
	defaultOutputDir           = "output"
	defaultVocabularyPath      = "anglicisms.json"
	defaultResultsFile         = "analysis.db"
	defaultLogDir              = "~/.local/share/anglicorpus/logs"
	defaultLogRetentionDays    = 30
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultYouTubeBaseURL      = "https://www.googleapis.com/youtube/v3"
	defaultYouTubePageSize     = 50
	defaultRequestsPerSecond   = 5
	defaultRequestTimeout      = 30
	defaultTranscriptLanguage  = "de"
	defaultTranscriptBaseURL   = "https://www.youtube.com"
	defaultRetryBackoffSeconds = 10
	defaultTaggerTimeout       = 10
	defaultWindowHalfWidth     = 25
	defaultMinBaseLength       = 3
	defaultTopN                = 15

	// CountFirst counts one hit per found loanword per transcript.
	CountFirst = "first"
	// CountAll counts every token matching a variant of the loanword.
	CountAll = "all"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:      defaultOutputDir,
			VocabularyPath: defaultVocabularyPath,
			LogDir:         defaultLogDir,
		},
		YouTube: YouTube{
			BaseURL:           defaultYouTubeBaseURL,
			PageSize:          defaultYouTubePageSize,
			RequestsPerSecond: defaultRequestsPerSecond,
			RequestTimeout:    defaultRequestTimeout,
		},
		Transcripts: Transcripts{
			Language:            defaultTranscriptLanguage,
			BaseURL:             defaultTranscriptBaseURL,
			RetryBackoffSeconds: defaultRetryBackoffSeconds,
		},
		Tagger: Tagger{
			TimeoutSeconds: defaultTaggerTimeout,
		},
		Analysis: Analysis{
			WindowHalfWidth: defaultWindowHalfWidth,
			MinBaseLength:   defaultMinBaseLength,
			TopN:            defaultTopN,
			CountMode:       CountAll,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
