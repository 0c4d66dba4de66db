package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"video-rag/internal/chat"
	"video-rag/internal/config"
	"video-rag/internal/embedding"
	"video-rag/internal/format"
	"video-rag/internal/helper"
	"video-rag/internal/knowledge"
	"video-rag/internal/media"
	"video-rag/internal/models"
	"video-rag/internal/report"
	"video-rag/internal/transcribe"
	"video-rag/pkg/executor"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	videoURL := flag.String("url", "", "Video URL to analyze")
	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	question := flag.String("question", "", "Ask a single question instead of starting the chat loop")
	reportPath := flag.String("report", "", "Write the analysis report (markdown) to this path")
	htmlPath := flag.String("html", "", "Write the analysis report (HTML) to this path")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *videoURL == "" {
		log.Fatal().Msg("Please provide a video URL using the -url flag")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()

	downloader := media.NewDownloader(executor.New(), cfg.Media.TempDir)
	log.Info().Str("url", *videoURL).Msg("Downloading audio")
	audioPath, err := downloader.Download(ctx, *videoURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Error downloading audio")
	}
	defer downloader.Cleanup(audioPath)

	client := transcribe.NewClient(&cfg.Transcription, cfg.Secrets.SpeechmaticsAPIKey)
	log.Info().Msg("Submitting audio for transcription")
	raw, err := client.Transcribe(ctx, audioPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error transcribing audio")
	}

	analysis, err := buildAnalysis(raw)
	if err != nil {
		log.Fatal().Err(err).Msg("Error formatting transcription")
	}

	if *debug {
		helper.PrettyPrint(analysis.Chapters)
	}

	printAnalysis(analysis)

	if *reportPath != "" || *htmlPath != "" {
		md := report.Markdown(analysis, *videoURL)
		if *reportPath != "" {
			if err := os.WriteFile(*reportPath, []byte(md), 0644); err != nil {
				log.Fatal().Err(err).Msg("Error writing report")
			}
			log.Info().Str("path", *reportPath).Msg("Report written")
		}
		if *htmlPath != "" {
			if err := report.WriteHTML(md, *htmlPath); err != nil {
				log.Fatal().Err(err).Msg("Error writing HTML report")
			}
			log.Info().Str("path", *htmlPath).Msg("HTML report written")
		}
	}

	log.Info().Msg("Preparing chat")
	session, err := prepareChat(ctx, cfg, analysis)
	if err != nil {
		log.Fatal().Err(err).Msg("Error preparing chat")
	}

	if *question != "" {
		askAndPrint(ctx, session, *question)
		return
	}

	chatLoop(ctx, session)
}

func buildAnalysis(raw *models.RawTranscription) (*models.VideoAnalysis, error) {
	transcript, err := format.Transcript(raw.Tokens)
	if err != nil {
		return nil, err
	}
	chapters, err := format.Chapters(raw.Chapters)
	if err != nil {
		return nil, err
	}
	return &models.VideoAnalysis{
		Transcript: transcript,
		Summary:    raw.Summary,
		Chapters:   chapters,
	}, nil
}

func printAnalysis(analysis *models.VideoAnalysis) {
	fmt.Println("Transcript:")
	for _, turn := range analysis.Transcript {
		fmt.Printf("%s:\n%s\n", turn.Speaker, turn.Text)
	}

	fmt.Println("Summary:")
	fmt.Printf("%s\n\n", analysis.Summary)

	fmt.Println("Chapters:")
	for _, chapter := range analysis.Chapters {
		fmt.Printf("%s - %s: %s\n", chapter.StartDisplay, chapter.EndDisplay, chapter.Title)
		if chapter.Summary != "" {
			fmt.Printf("  %s\n", chapter.Summary)
		}
	}
	fmt.Println()
}

func prepareChat(ctx context.Context, cfg *config.Config, analysis *models.VideoAnalysis) (*chat.Session, error) {
	embedder, err := embedding.NewEmbedder(&cfg.Embedding, cfg.Secrets.OpenAIAPIKey)
	if err != nil {
		return nil, err
	}

	base, err := knowledge.Assemble(ctx, embedder,
		transcriptText(analysis),
		analysis.Summary,
		chaptersText(analysis),
		knowledge.Options{ChunkSize: cfg.RAG.ChunkSize},
	)
	if err != nil {
		return nil, err
	}

	model, err := chat.NewModel(&cfg.Chat, cfg.Secrets.OpenAIAPIKey)
	if err != nil {
		return nil, err
	}

	return chat.NewSession(base, model, cfg.RAG.TopK), nil
}

// transcriptText flattens the formatted turns into the text indexed for
// retrieval, one speaker-labelled block per turn.
func transcriptText(analysis *models.VideoAnalysis) string {
	var sb strings.Builder
	for _, turn := range analysis.Transcript {
		sb.WriteString(fmt.Sprintf("%s - %s\n", turn.Speaker, turn.Text))
	}
	return sb.String()
}

func chaptersText(analysis *models.VideoAnalysis) string {
	var sb strings.Builder
	for _, chapter := range analysis.Chapters {
		sb.WriteString(fmt.Sprintf("%s - %s: %s\n", chapter.StartDisplay, chapter.EndDisplay, chapter.Title))
	}
	return sb.String()
}

func askAndPrint(ctx context.Context, session *chat.Session, question string) {
	answer, err := session.Ask(ctx, question)
	if err != nil {
		log.Fatal().Err(err).Msg("Error answering question")
	}

	fmt.Printf("\n%s\n\n", answer.Content)
	if len(answer.Sources) > 0 {
		ids := make([]string, len(answer.Sources))
		for i, src := range answer.Sources {
			ids[i] = src.ID
		}
		fmt.Printf("Sources: %s\n", strings.Join(ids, ", "))
	}
}

func chatLoop(ctx context.Context, session *chat.Session) {
	fmt.Println("Ask a question about the video (empty line or 'exit' to quit):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Question> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" || question == "exit" {
			break
		}
		askAndPrint(ctx, session, question)
	}
}
