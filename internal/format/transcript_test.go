package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-rag/internal/models"
)

func word(text, speaker string, eos bool) models.Token {
	return models.Token{Kind: models.TokenWord, Text: text, Speaker: speaker, EndOfSentence: eos}
}

func punct(text, speaker string, eos bool) models.Token {
	return models.Token{Kind: models.TokenPunctuation, Text: text, Speaker: speaker, EndOfSentence: eos}
}

func TestTranscriptSpeakerChange(t *testing.T) {
	tokens := []models.Token{
		word("Hello", "S1", false),
		word("there", "S1", true),
		word("Hi", "S2", true),
	}

	turns, err := Transcript(tokens)
	require.NoError(t, err)

	require.Equal(t, []models.SpeakerTurn{
		{Speaker: "SPEAKER 1", Text: "Hello there\n\n"},
		{Speaker: "SPEAKER 2", Text: "Hi\n\n"},
	}, turns)
}

func TestTranscriptTrailingTurnFlushed(t *testing.T) {
	tokens := []models.Token{
		word("Just", "S1", false),
		word("one", "S1", false),
		word("speaker", "S1", false),
	}

	turns, err := Transcript(tokens)
	require.NoError(t, err)

	require.Len(t, turns, 1)
	assert.Equal(t, "SPEAKER 1", turns[0].Speaker)
	assert.Equal(t, "Just one speaker", turns[0].Text)
}

func TestTranscriptEmptyInput(t *testing.T) {
	turns, err := Transcript(nil)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestTranscriptPunctuationSpacing(t *testing.T) {
	tokens := []models.Token{
		word("Hello", "S1", false),
		punct(",", "S1", false),
		word("world", "S1", false),
		punct(".", "S1", true),
	}

	turns, err := Transcript(tokens)
	require.NoError(t, err)

	require.Len(t, turns, 1)
	assert.Equal(t, "Hello, world.\n\n", turns[0].Text)
}

func TestTranscriptParagraphBreakPerSentence(t *testing.T) {
	tokens := []models.Token{
		word("One", "S1", true),
		word("Two", "S1", true),
		word("Three", "S1", true),
	}

	turns, err := Transcript(tokens)
	require.NoError(t, err)

	require.Len(t, turns, 1)
	assert.Equal(t, 3, strings.Count(turns[0].Text, "\n\n"))
}

// Concatenated turn text must reproduce every token exactly once in order,
// modulo inserted whitespace.
func TestTranscriptPreservesTokens(t *testing.T) {
	tokens := []models.Token{
		word("The", "S1", false),
		word("quick", "S1", false),
		punct(",", "S1", false),
		word("brown", "S2", true),
		word("fox", "S1", false),
		punct(".", "S1", true),
		word("Done", "S3", true),
	}

	turns, err := Transcript(tokens)
	require.NoError(t, err)

	var joined strings.Builder
	for _, turn := range turns {
		joined.WriteString(turn.Text)
	}
	var want strings.Builder
	for _, token := range tokens {
		want.WriteString(token.Text)
	}

	assert.Equal(t, want.String(), stripWhitespace(joined.String()))
}

func TestTranscriptSpeakerLabels(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{name: "short code expanded", label: "S1", want: "SPEAKER 1"},
		{name: "two digit code", label: "S12", want: "SPEAKER 12"},
		{name: "unidentified passes through", label: "UU", want: "UU"},
		{name: "bare S passes through", label: "S", want: "S"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turns, err := Transcript([]models.Token{word("hi", tt.label, false)})
			require.NoError(t, err)
			require.Len(t, turns, 1)
			assert.Equal(t, tt.want, turns[0].Speaker)
		})
	}
}

func TestTranscriptMalformedToken(t *testing.T) {
	tests := []struct {
		name  string
		token models.Token
	}{
		{name: "missing text", token: models.Token{Kind: models.TokenWord, Speaker: "S1"}},
		{name: "missing speaker", token: models.Token{Kind: models.TokenWord, Text: "hi"}},
		{name: "unknown kind", token: models.Token{Kind: "noise", Text: "hi", Speaker: "S1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transcript([]models.Token{tt.token})
			require.ErrorIs(t, err, ErrMalformedTranscript)
		})
	}
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
