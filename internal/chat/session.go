package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"

	"video-rag/internal/knowledge"
	"video-rag/internal/models"
)

// ErrAnswerGeneration is returned when the language model call fails. The
// failed turn is not recorded, so the session stays usable for a retry.
var ErrAnswerGeneration = errors.New("answer generation failed")

const defaultTopK = 4

// LanguageModel is the slice of the langchaingo model surface the session
// needs. Satisfied by llms.Model.
type LanguageModel interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Answer is a grounded response together with the chunks used as evidence.
type Answer struct {
	Content string
	Sources []knowledge.Source
}

// Session is a conversational QA session over one knowledge base. It owns
// its history exclusively; callers must serialize calls to Ask.
type Session struct {
	base    *knowledge.Base
	model   LanguageModel
	history *memory.ChatMessageHistory
	topK    int
}

func NewSession(base *knowledge.Base, model LanguageModel, topK int) *Session {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Session{
		base:    base,
		model:   model,
		history: memory.NewChatMessageHistory(),
		topK:    topK,
	}
}

// Ask answers a question grounded in the knowledge base. The conversation
// history conditions retrieval; history is only appended once the model has
// produced an answer, so a failed call leaves no phantom turn behind.
func (s *Session) Ask(ctx context.Context, question string) (*Answer, error) {
	query, err := s.retrievalQuery(ctx, question)
	if err != nil {
		return nil, err
	}

	sources, err := s.base.Search(ctx, query, s.topK)
	if err != nil {
		return nil, err
	}

	var contextText strings.Builder
	for _, src := range sources {
		contextText.WriteString(src.Content)
		contextText.WriteString(models.ContextSeparator)
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, models.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf(models.AnswerPromptTemplate, contextText.String(), question)),
	}

	resp, err := s.model.GenerateContent(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnswerGeneration, err)
	}
	answer, err := firstChoice(resp)
	if err != nil {
		return nil, err
	}

	if err := s.history.AddUserMessage(ctx, question); err != nil {
		return nil, fmt.Errorf("record question: %w", err)
	}
	if err := s.history.AddAIMessage(ctx, answer); err != nil {
		return nil, fmt.Errorf("record answer: %w", err)
	}

	log.Debug().Int("sources", len(sources)).Msg("Question answered")
	return &Answer{Content: answer, Sources: sources}, nil
}

// History returns the recorded conversation in order.
func (s *Session) History(ctx context.Context) ([]llms.ChatMessage, error) {
	return s.history.Messages(ctx)
}

// retrievalQuery conditions retrieval on prior turns by rewriting the
// follow-up into a standalone question. The first question of a session goes
// through unchanged.
func (s *Session) retrievalQuery(ctx context.Context, question string) (string, error) {
	history, err := s.history.Messages(ctx)
	if err != nil {
		return "", fmt.Errorf("read history: %w", err)
	}
	if len(history) == 0 {
		return question, nil
	}

	buffer, err := llms.GetBufferString(history, "Human", "AI")
	if err != nil {
		return "", fmt.Errorf("render history: %w", err)
	}

	prompt := fmt.Sprintf(models.CondensePromptTemplate, buffer, question)
	resp, err := s.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnswerGeneration, err)
	}
	condensed, err := firstChoice(resp)
	if err != nil {
		return "", err
	}

	condensed = strings.TrimSpace(condensed)
	if condensed == "" {
		return question, nil
	}
	return condensed, nil
}

func firstChoice(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty model response", ErrAnswerGeneration)
	}
	return resp.Choices[0].Content, nil
}
