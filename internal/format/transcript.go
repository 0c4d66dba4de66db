package format

import (
	"errors"
	"fmt"
	"strings"

	"video-rag/internal/models"
)

// ErrMalformedTranscript is returned when a token is missing required fields.
var ErrMalformedTranscript = errors.New("malformed transcript")

const paragraphBreak = "\n\n"

// Transcript folds the ordered token stream into per-speaker turns. A turn
// ends exactly when the speaker label changes from the previous token. Words
// are joined by single spaces, punctuation attaches directly, and each
// sentence end appends a paragraph break. The trailing turn is always
// flushed, so a single-speaker stream produces exactly one turn.
func Transcript(tokens []models.Token) ([]models.SpeakerTurn, error) {
	turns := []models.SpeakerTurn{}
	currentSpeaker := ""
	var content strings.Builder

	for i, token := range tokens {
		if err := validateToken(token); err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		if currentSpeaker == "" {
			currentSpeaker = token.Speaker
		}
		if token.Speaker != currentSpeaker {
			turns = append(turns, models.SpeakerTurn{
				Speaker: speakerLabel(currentSpeaker),
				Text:    content.String(),
			})
			content.Reset()
			currentSpeaker = token.Speaker
		}
		if content.Len() > 0 && token.Kind != models.TokenPunctuation {
			content.WriteString(" ")
		}
		content.WriteString(token.Text)
		if token.EndOfSentence {
			content.WriteString(paragraphBreak)
		}
	}

	if content.Len() > 0 {
		turns = append(turns, models.SpeakerTurn{
			Speaker: speakerLabel(currentSpeaker),
			Text:    content.String(),
		})
	}

	return turns, nil
}

func validateToken(token models.Token) error {
	if token.Text == "" {
		return fmt.Errorf("%w: missing text", ErrMalformedTranscript)
	}
	if token.Speaker == "" {
		return fmt.Errorf("%w: missing speaker label", ErrMalformedTranscript)
	}
	if token.Kind != models.TokenWord && token.Kind != models.TokenPunctuation {
		return fmt.Errorf("%w: unknown token kind %q", ErrMalformedTranscript, token.Kind)
	}
	return nil
}

// speakerLabel expands the service's short code ("S1", "S2", ...) to a
// readable label. Labels without the prefix, such as "UU" for an
// unidentified speaker, pass through unchanged.
func speakerLabel(label string) string {
	if len(label) > 1 && strings.HasPrefix(label, "S") {
		return "SPEAKER " + label[1:]
	}
	return label
}
