// Package config provides configuration management for voxhire.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the voxhire server.
type Config struct {
	// Addr is the address the HTTP server listens on (e.g., ":8000").
	Addr string

	// DataDir is the directory for persistent data (audio, reports, SQLite DB).
	DataDir string

	// AudioDir is where synthesized audio artifacts are written.
	AudioDir string

	// ReportsDir is where report JSON files are written.
	ReportsDir string

	// DatabasePath is the full path to the SQLite database file.
	DatabasePath string

	// QuestionBankPath points at the YAML question bank.
	QuestionBankPath string
	// QuestionSet selects a named set from the bank.
	QuestionSet string

	// GroqAPIKey authorizes transcription, synthesis and chat completions.
	GroqAPIKey string
	// SpeechBaseURL is the OpenAI-compatible speech API base.
	SpeechBaseURL string
	// STTModel is the transcription model.
	STTModel string
	// TTSModel and TTSVoice drive synthesis.
	TTSModel string
	TTSVoice string

	// OpenAIAPIKey authorizes the embeddings API used for answer scoring.
	OpenAIAPIKey string
	// EmbeddingsBaseURL is the OpenAI-compatible embeddings API base.
	EmbeddingsBaseURL string
	// EmbeddingModel is the embedding model name.
	EmbeddingModel string

	// FollowupProvider picks the follow-up generator: "groq" or "gemini".
	FollowupProvider string
	// ChatBaseURL and ChatModel configure the Groq chat generator.
	ChatBaseURL string
	ChatModel   string
	// GeminiAPIKey and GeminiModel configure the Gemini generator.
	GeminiAPIKey string
	GeminiModel  string

	// IntroPrompt may contain {candidate_name}.
	IntroPrompt      string
	ConclusionPrompt string

	// Slack integration (optional).
	SlackBotToken string
	SlackChannel  string

	// Telegram integration (optional).
	TelegramBotToken string
	TelegramChatID   int64

	// Logging.
	LogJSON bool
	Debug   bool
}

const (
	defaultIntro = "Hello {candidate_name}, welcome to your interview. " +
		"I will ask you a few technical questions. Please answer each one as completely as you can. " +
		"Let me know when you are ready to begin."
	defaultConclusion = "That concludes our interview. Thank you for your time. " +
		"We will review your responses and get back to you soon."
)

// Load creates a Config from a .env file and environment variables.
// Existing env vars take precedence over the file.
func Load() (*Config, error) {
	// Missing .env is fine; the environment alone may be complete.
	_ = godotenv.Load()

	dataDir := envOr("VOXHIRE_DATA_DIR", "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	cfg := &Config{
		Addr:             envOr("VOXHIRE_ADDR", ":8000"),
		DataDir:          dataDir,
		AudioDir:         envOr("VOXHIRE_AUDIO_DIR", filepath.Join(dataDir, "audio")),
		ReportsDir:       envOr("VOXHIRE_REPORTS_DIR", filepath.Join(dataDir, "reports")),
		DatabasePath:     filepath.Join(dataDir, "voxhire.db"),
		QuestionBankPath: envOr("VOXHIRE_QUESTION_BANK", "config/questions.yaml"),
		QuestionSet:      envOr("VOXHIRE_QUESTION_SET", "backend"),

		GroqAPIKey:    os.Getenv("GROQ_API_KEY"),
		SpeechBaseURL: envOr("VOXHIRE_SPEECH_BASE_URL", "https://api.groq.com/openai/v1"),
		STTModel:      envOr("VOXHIRE_STT_MODEL", "whisper-large-v3"),
		TTSModel:      envOr("VOXHIRE_TTS_MODEL", "playai-tts"),
		TTSVoice:      envOr("VOXHIRE_TTS_VOICE", "Fritz-PlayAI"),

		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		EmbeddingsBaseURL: envOr("VOXHIRE_EMBEDDINGS_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingModel:    envOr("VOXHIRE_EMBEDDING_MODEL", "text-embedding-3-small"),

		FollowupProvider: envOr("VOXHIRE_FOLLOWUP_PROVIDER", "groq"),
		ChatBaseURL:      envOr("VOXHIRE_CHAT_BASE_URL", "https://api.groq.com/openai/v1"),
		ChatModel:        envOr("VOXHIRE_CHAT_MODEL", "openai/gpt-oss-120b"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envOr("VOXHIRE_GEMINI_MODEL", "gemini-2.5-flash"),

		IntroPrompt:      envOr("VOXHIRE_INTRO_PROMPT", defaultIntro),
		ConclusionPrompt: envOr("VOXHIRE_CONCLUSION_PROMPT", defaultConclusion),

		SlackBotToken: os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannel:  os.Getenv("SLACK_CHANNEL"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   envOrInt64("TELEGRAM_CHAT_ID", 0),

		LogJSON: envOrBool("VOXHIRE_LOG_JSON", false),
		Debug:   envOrBool("VOXHIRE_DEBUG", false),
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	switch c.FollowupProvider {
	case "groq":
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when VOXHIRE_FOLLOWUP_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("unknown follow-up provider %q (want groq or gemini)", c.FollowupProvider)
	}
	if c.TelegramBotToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

// SlackEnabled returns true if the Slack notifier is configured.
func (c *Config) SlackEnabled() bool {
	return c.SlackBotToken != "" && c.SlackChannel != ""
}

// TelegramEnabled returns true if the Telegram notifier is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envOrBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
