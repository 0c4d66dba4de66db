package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("SPEECHMATICS_API_KEY", "sm-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")

	path := writeConfig(t, `
transcription:
  language: de
  diarization: true
  chapters: true
  timeout_minutes: 5
rag:
  chunk_size: 1000
  top_k: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "de", cfg.Transcription.Language)
	assert.True(t, cfg.Transcription.Diarization)
	assert.Equal(t, 5*time.Minute, cfg.Transcription.Timeout())
	assert.Equal(t, 1000, cfg.RAG.ChunkSize)
	assert.Equal(t, 3, cfg.RAG.TopK)
	assert.Equal(t, "sm-key", cfg.Secrets.SpeechmaticsAPIKey)
	assert.Equal(t, "oa-key", cfg.Secrets.OpenAIAPIKey)
}

func TestLoadMissingCredentials(t *testing.T) {
	// t.Setenv registers the restore; Unsetenv makes the key truly absent.
	t.Setenv("SPEECHMATICS_API_KEY", "x")
	t.Setenv("OPENAI_API_KEY", "x")
	os.Unsetenv("SPEECHMATICS_API_KEY")

	path := writeConfig(t, "rag:\n  top_k: 2\n")

	_, err := Load(path)
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestValidateDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://asr.api.speechmatics.com/v2", cfg.Transcription.BaseURL)
	assert.Equal(t, "en", cfg.Transcription.Language)
	assert.Equal(t, "informative", cfg.Transcription.SummaryContentType)
	assert.Equal(t, "detailed", cfg.Transcription.SummaryLength)
	assert.Equal(t, "paragraphs", cfg.Transcription.SummaryType)
	assert.Equal(t, 2*time.Second, cfg.Transcription.PollInterval())
	assert.Equal(t, 15*time.Minute, cfg.Transcription.Timeout())
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.Chat.Model)
	assert.Equal(t, 4000, cfg.RAG.ChunkSize)
	assert.Equal(t, 4, cfg.RAG.TopK)
	assert.Equal(t, "data/temp", cfg.Media.TempDir)
}

func TestValidateRejectsNegativeValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "negative chunk size", cfg: Config{RAG: RAGConfig{ChunkSize: -1}}},
		{name: "negative top k", cfg: Config{RAG: RAGConfig{TopK: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.cfg.Validate())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
