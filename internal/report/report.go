package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"video-rag/internal/models"
)

// Markdown renders the analysis as a markdown document with transcript,
// summary and chapter sections.
func Markdown(analysis *models.VideoAnalysis, videoURL string) string {
	var sb strings.Builder

	sb.WriteString("# Video analysis\n\n")
	if videoURL != "" {
		sb.WriteString(fmt.Sprintf("Source: %s\n\n", videoURL))
	}

	sb.WriteString("## Transcript\n\n")
	for _, turn := range analysis.Transcript {
		sb.WriteString(fmt.Sprintf("**%s:**\n\n", turn.Speaker))
		sb.WriteString(strings.TrimRight(turn.Text, "\n"))
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Summary\n\n")
	sb.WriteString(strings.TrimSpace(analysis.Summary))
	sb.WriteString("\n\n")

	sb.WriteString("## Chapters\n\n")
	for _, chapter := range analysis.Chapters {
		sb.WriteString(fmt.Sprintf("- %s - %s: %s\n", chapter.StartDisplay, chapter.EndDisplay, chapter.Title))
		if chapter.Summary != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", chapter.Summary))
		}
	}

	return sb.String()
}

// WriteHTML converts the markdown report to HTML and writes it to path.
func WriteHTML(markdown, path string) error {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write html report: %w", err)
	}
	return nil
}
