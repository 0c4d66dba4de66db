package chat

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms/openai"

	"video-rag/internal/config"
)

// NewModel creates the generative model connection for a session.
func NewModel(cfg *config.LLMConfig, apiKey string) (*openai.LLM, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(apiKey, "Bearer ")),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	return llm, nil
}
