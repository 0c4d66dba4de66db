package format

import (
	"errors"
	"fmt"

	"video-rag/internal/models"
)

// ErrInvalidChapter is returned when a chapter record is missing required fields.
var ErrInvalidChapter = errors.New("invalid chapter")

// Chapters formats chapter records in order, adding display offsets. Output
// order matches input order. Offsets are not range-checked.
func Chapters(chapters []models.Chapter) ([]models.FormattedChapter, error) {
	formatted := make([]models.FormattedChapter, 0, len(chapters))
	for i, chapter := range chapters {
		if chapter.Title == "" {
			return nil, fmt.Errorf("chapter %d: %w: missing title", i, ErrInvalidChapter)
		}
		formatted = append(formatted, models.FormattedChapter{
			Chapter:      chapter,
			StartDisplay: clockDisplay(chapter.StartTime),
			EndDisplay:   clockDisplay(chapter.EndTime),
		})
	}
	return formatted, nil
}

// clockDisplay renders an offset in seconds as zero-padded minutes:seconds.
// Fractional seconds are truncated and minutes are unbounded, so 3600
// renders as "60:00".
func clockDisplay(seconds float64) string {
	whole := int(seconds)
	return fmt.Sprintf("%02d:%02d", whole/60, whole%60)
}
