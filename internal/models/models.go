package models

// TokenKind distinguishes spoken words from attached punctuation marks.
type TokenKind string

const (
	TokenWord        TokenKind = "word"
	TokenPunctuation TokenKind = "punctuation"
)

// Token is a single word or punctuation mark from the diarized transcript,
// in temporal order of the source audio.
type Token struct {
	Kind          TokenKind
	Text          string
	Speaker       string
	EndOfSentence bool
}

// SpeakerTurn is one contiguous run of tokens attributed to a single speaker.
// A turn ends at a speaker change, not necessarily at a sentence boundary.
type SpeakerTurn struct {
	Speaker string
	Text    string
}

// Chapter is a timestamped segment of the source audio, offsets in seconds.
type Chapter struct {
	StartTime float64
	EndTime   float64
	Title     string
	Summary   string
}

// FormattedChapter adds display offsets as zero-padded minutes:seconds.
// Minutes are not clamped to an hour.
type FormattedChapter struct {
	Chapter
	StartDisplay string
	EndDisplay   string
}

// RawTranscription is the complete result of one transcription job.
type RawTranscription struct {
	Tokens   []Token
	Summary  string
	Chapters []Chapter
}

// VideoAnalysis is the formatted, user-facing view of a transcription.
type VideoAnalysis struct {
	Transcript []SpeakerTurn
	Summary    string
	Chapters   []FormattedChapter
}
