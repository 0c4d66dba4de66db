package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredentials is returned when a required API key is absent from
// the environment.
var ErrMissingCredentials = errors.New("missing credentials")

type Config struct {
	Transcription TranscriptionConfig `yaml:"transcription"`
	Embedding     LLMConfig           `yaml:"embedding"`
	Chat          LLMConfig           `yaml:"chat"`
	RAG           RAGConfig           `yaml:"rag"`
	Media         MediaConfig         `yaml:"media"`

	// Secrets are environment-sourced, never read from the YAML file.
	Secrets Secrets `yaml:"-"`
}

type TranscriptionConfig struct {
	BaseURL             string `yaml:"base_url"`
	Language            string `yaml:"language"`
	Diarization         bool   `yaml:"diarization"`
	SummaryContentType  string `yaml:"summary_content_type"`
	SummaryLength       string `yaml:"summary_length"`
	SummaryType         string `yaml:"summary_type"`
	Chapters            bool   `yaml:"chapters"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	TimeoutMinutes      int    `yaml:"timeout_minutes"`
}

// PollInterval is the delay between job status checks.
func (c *TranscriptionConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Timeout bounds the whole submit-and-wait round trip.
func (c *TranscriptionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type RAGConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	TopK      int `yaml:"top_k"`
}

type MediaConfig struct {
	TempDir string `yaml:"temp_dir"`
}

type Secrets struct {
	SpeechmaticsAPIKey string `envconfig:"SPEECHMATICS_API_KEY" required:"true"`
	OpenAIAPIKey       string `envconfig:"OPENAI_API_KEY" required:"true"`
}

// Load reads the YAML config, applies defaults and pulls secrets from the
// environment. Called once at startup; components receive the struct and
// never re-read configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	_ = godotenv.Load()
	if err := envconfig.Process("", &cfg.Secrets); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCredentials, err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.RAG.ChunkSize < 0 {
		return fmt.Errorf("rag.chunk_size must not be negative")
	}
	if c.RAG.TopK < 0 {
		return fmt.Errorf("rag.top_k must not be negative")
	}

	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = "https://asr.api.speechmatics.com/v2"
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = "en"
	}
	if c.Transcription.SummaryContentType == "" {
		c.Transcription.SummaryContentType = "informative"
	}
	if c.Transcription.SummaryLength == "" {
		c.Transcription.SummaryLength = "detailed"
	}
	if c.Transcription.SummaryType == "" {
		c.Transcription.SummaryType = "paragraphs"
	}
	if c.Transcription.PollIntervalSeconds == 0 {
		c.Transcription.PollIntervalSeconds = 2
	}
	if c.Transcription.TimeoutMinutes == 0 {
		c.Transcription.TimeoutMinutes = 15
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = "https://api.openai.com/v1"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Chat.BaseURL == "" {
		c.Chat.BaseURL = "https://api.openai.com/v1"
	}
	if c.Chat.Model == "" {
		c.Chat.Model = "gpt-4o-mini"
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = 4000
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = 4
	}
	if c.Media.TempDir == "" {
		c.Media.TempDir = "data/temp"
	}

	return nil
}
