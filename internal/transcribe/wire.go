package transcribe

import (
	"context"
	"fmt"

	"video-rag/internal/models"
)

// Wire types for the json-v2 transcript format. Each result carries one or
// more alternatives; the first alternative is the service's best guess.
type transcriptResponse struct {
	Results  []wireResult  `json:"results"`
	Summary  wireSummary   `json:"summary"`
	Chapters []wireChapter `json:"chapters"`
}

type wireResult struct {
	Type         string `json:"type"`
	IsEOS        bool   `json:"is_eos"`
	Alternatives []struct {
		Content string `json:"content"`
		Speaker string `json:"speaker"`
	} `json:"alternatives"`
}

type wireSummary struct {
	Content string `json:"content"`
}

type wireChapter struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Title     string  `json:"title"`
	Summary   string  `json:"summary"`
}

func (c *Client) fetchTranscript(ctx context.Context, jobID string) (*models.RawTranscription, error) {
	var wire transcriptResponse
	if err := c.get(ctx, fmt.Sprintf("/jobs/%s/transcript?format=json-v2", jobID), &wire); err != nil {
		return nil, err
	}
	return wire.toModel(), nil
}

// toModel maps the wire format onto typed records. Fields are carried over
// as-is; shape validation happens in the formatter, at the processing
// boundary.
func (r *transcriptResponse) toModel() *models.RawTranscription {
	raw := &models.RawTranscription{
		Tokens:   make([]models.Token, 0, len(r.Results)),
		Summary:  r.Summary.Content,
		Chapters: make([]models.Chapter, 0, len(r.Chapters)),
	}

	for _, result := range r.Results {
		token := models.Token{
			Kind:          models.TokenKind(result.Type),
			EndOfSentence: result.IsEOS,
		}
		if len(result.Alternatives) > 0 {
			token.Text = result.Alternatives[0].Content
			token.Speaker = result.Alternatives[0].Speaker
		}
		raw.Tokens = append(raw.Tokens, token)
	}

	for _, chapter := range r.Chapters {
		raw.Chapters = append(raw.Chapters, models.Chapter{
			StartTime: chapter.StartTime,
			EndTime:   chapter.EndTime,
			Title:     chapter.Title,
			Summary:   chapter.Summary,
		})
	}

	return raw
}
