package engine

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the ambient, engine-wide settings bag: provider selection,
// API keys, and tuning constants, loaded from the environment via
// godotenv.
type Config struct {
	CaptureSampleRate     int
	RecognitionSampleRate int

	ChunkerMinSamples    int
	ChunkerTargetSamples int
	ChunkerMaxSamples    int
	ChunkerOverlapSamp   int

	LedgerFinalizeWindowMs int
	LedgerMaxSegments      int

	HTTPPolicy HTTPPolicy

	TranscribeProvider string // "local", "openai", "deepgram"
	TranscribeModel    string
	TranscribeAPIKey   string
	TranscribeLocalURL string

	SummarizeProvider string // "local", "anthropic", "openai"
	SummarizeModel    string
	SummarizeAPIKey   string
	SummarizeLocalURL string

	Participants   []string
	MeetingContext string
}

// HTTPPolicy is the timeout/retry policy every provider's HTTP client is
// built with. NewHTTPClient applies ConnectTimeout, RecvResponseTo and
// PerCallTimeout, and RetryDo applies MaxRetries and BackoffBase;
// GlobalTimeout, SendRequestTo, SendBodyTimeout and RecvBodyTimeout are
// carried here but not applied by either.
type HTTPPolicy struct {
	GlobalTimeout   time.Duration
	PerCallTimeout  time.Duration
	ConnectTimeout  time.Duration
	SendRequestTo   time.Duration
	SendBodyTimeout time.Duration
	RecvResponseTo  time.Duration
	RecvBodyTimeout time.Duration
	MaxRetries      int
	BackoffBase     time.Duration
}

// DefaultConfig returns this engine's fixed tuning constants and
// provider defaults.
func DefaultConfig() Config {
	return Config{
		CaptureSampleRate:     48000,
		RecognitionSampleRate: 16000,

		ChunkerMinSamples:    32000,
		ChunkerTargetSamples: 64000,
		ChunkerMaxSamples:    96000,
		ChunkerOverlapSamp:   16000,

		LedgerFinalizeWindowMs: 15000,
		LedgerMaxSegments:      2000,

		HTTPPolicy: HTTPPolicy{
			GlobalTimeout:   90 * time.Second,
			PerCallTimeout:  60 * time.Second,
			ConnectTimeout:  5 * time.Second,
			SendRequestTo:   5 * time.Second,
			SendBodyTimeout: 15 * time.Second,
			RecvResponseTo:  10 * time.Second,
			RecvBodyTimeout: 60 * time.Second,
			MaxRetries:      2,
			BackoffBase:     200 * time.Millisecond,
		},

		TranscribeProvider: "local",
		TranscribeLocalURL: "http://127.0.0.1:8765/transcribe",

		SummarizeProvider: "local",
		SummarizeLocalURL: "http://127.0.0.1:8766/summarize",
	}
}

// LoadConfigFromEnv loads a .env file if present, tolerating a missing
// file, and overlays environment variables onto DefaultConfig().
func LoadConfigFromEnv(logger Logger) Config {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using system environment variables")
	}

	cfg := DefaultConfig()

	if v := os.Getenv("TRANSCRIBE_PROVIDER"); v != "" {
		cfg.TranscribeProvider = v
	}
	cfg.TranscribeModel = os.Getenv("TRANSCRIBE_MODEL")
	cfg.TranscribeAPIKey = firstNonEmpty(
		os.Getenv("OPENAI_API_KEY"),
		os.Getenv("DEEPGRAM_API_KEY"),
	)
	if v := os.Getenv("TRANSCRIBE_LOCAL_URL"); v != "" {
		cfg.TranscribeLocalURL = v
	}

	if v := os.Getenv("SUMMARIZE_PROVIDER"); v != "" {
		cfg.SummarizeProvider = v
	}
	cfg.SummarizeModel = os.Getenv("SUMMARIZE_MODEL")
	cfg.SummarizeAPIKey = firstNonEmpty(
		os.Getenv("ANTHROPIC_API_KEY"),
		os.Getenv("OPENAI_API_KEY"),
	)
	if v := os.Getenv("SUMMARIZE_LOCAL_URL"); v != "" {
		cfg.SummarizeLocalURL = v
	}

	if v, err := strconv.Atoi(os.Getenv("LEDGER_MAX_SEGMENTS")); err == nil && v > 0 {
		cfg.LedgerMaxSegments = v
	}

	if v := os.Getenv("MEETING_CONTEXT"); v != "" {
		cfg.MeetingContext = v
	}
	if v := os.Getenv("MEETING_PARTICIPANTS"); v != "" {
		cfg.Participants = strings.Split(v, ",")
	}

	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
