package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-rag/internal/models"
)

func sampleAnalysis() *models.VideoAnalysis {
	return &models.VideoAnalysis{
		Transcript: []models.SpeakerTurn{
			{Speaker: "SPEAKER 1", Text: "Hello there\n\n"},
			{Speaker: "SPEAKER 2", Text: "Hi\n\n"},
		},
		Summary: "Two people greet each other.",
		Chapters: []models.FormattedChapter{
			{
				Chapter:      models.Chapter{Title: "Greetings", Summary: "An exchange of greetings."},
				StartDisplay: "00:00",
				EndDisplay:   "02:05",
			},
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleAnalysis(), "https://example.com/watch?v=abc")

	assert.Contains(t, md, "# Video analysis")
	assert.Contains(t, md, "https://example.com/watch?v=abc")
	assert.Contains(t, md, "## Transcript")
	assert.Contains(t, md, "**SPEAKER 1:**")
	assert.Contains(t, md, "Hello there")
	assert.Contains(t, md, "## Summary")
	assert.Contains(t, md, "Two people greet each other.")
	assert.Contains(t, md, "## Chapters")
	assert.Contains(t, md, "- 00:00 - 02:05: Greetings")
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	md := Markdown(sampleAnalysis(), "")

	require.NoError(t, WriteHTML(md, path))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>Video analysis</h1>")
	assert.Contains(t, string(html), "<strong>SPEAKER 1:</strong>")
}
