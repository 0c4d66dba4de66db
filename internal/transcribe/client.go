package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"video-rag/internal/config"
	"video-rag/internal/models"
)

// ErrTimeout is returned when the caller's deadline expires before the job
// completes. No partial result is returned.
var ErrTimeout = errors.New("transcription timed out")

// ServiceError reports a failure from the transcription service: rejected
// audio, quota, or authentication (status 401/403).
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transcription service: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("transcription service: %s", e.Detail)
}

// Client submits audio to the batch transcription service and waits for the
// structured result (word-level transcript, summary, chapters).
type Client struct {
	cfg          *config.TranscriptionConfig
	apiKey       string
	http         *http.Client
	pollInterval time.Duration
}

func NewClient(cfg *config.TranscriptionConfig, apiKey string) *Client {
	return &Client{
		cfg:          cfg,
		apiKey:       apiKey,
		http:         &http.Client{},
		pollInterval: cfg.PollInterval(),
	}
}

// Transcribe submits the audio file and blocks until the job completes,
// bounded by the configured timeout.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (*models.RawTranscription, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	jobID, err := c.Submit(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	return c.Wait(ctx, jobID)
}

// Submit uploads the audio file together with the job configuration and
// returns the job identifier.
func (c *Client) Submit(ctx context.Context, audioPath string) (string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	confJSON, err := json.Marshal(c.jobConfig())
	if err != nil {
		return "", fmt.Errorf("marshal job config: %w", err)
	}
	if err := writer.WriteField("config", string(confJSON)); err != nil {
		return "", fmt.Errorf("write config field: %w", err)
	}

	part, err := writer.CreateFormFile("data_file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy audio file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/jobs", &body)
	if err != nil {
		return "", fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", requestError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", serviceError(resp)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if created.ID == "" {
		return "", &ServiceError{Detail: "no job id in response"}
	}

	log.Info().Str("job", created.ID).Msg("Transcription job submitted")
	return created.ID, nil
}

// Wait polls the job until it is done, then fetches the transcript. A
// rejected job surfaces as a ServiceError; a ctx deadline as ErrTimeout.
func (c *Client) Wait(ctx context.Context, jobID string) (*models.RawTranscription, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.jobStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch status {
		case "done":
			return c.fetchTranscript(ctx, jobID)
		case "rejected", "deleted", "expired":
			return nil, &ServiceError{Detail: fmt.Sprintf("job %s %s", jobID, status)}
		}
		log.Debug().Str("job", jobID).Str("status", status).Msg("Waiting for transcription job")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: job %s", ErrTimeout, jobID)
		case <-ticker.C:
		}
	}
}

func (c *Client) jobStatus(ctx context.Context, jobID string) (string, error) {
	var details struct {
		Job struct {
			Status string `json:"status"`
		} `json:"job"`
	}
	if err := c.get(ctx, "/jobs/"+jobID, &details); err != nil {
		return "", err
	}
	return details.Job.Status, nil
}

func (c *Client) jobConfig() map[string]any {
	transcription := map[string]any{
		"language": c.cfg.Language,
	}
	if c.cfg.Diarization {
		transcription["diarization"] = "speaker"
	}

	conf := map[string]any{
		"type":                 "transcription",
		"transcription_config": transcription,
		"summarization_config": map[string]any{
			"content_type":   c.cfg.SummaryContentType,
			"summary_length": c.cfg.SummaryLength,
			"summary_type":   c.cfg.SummaryType,
		},
	}
	if c.cfg.Chapters {
		conf["auto_chapters_config"] = map[string]any{}
	}
	return conf
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return requestError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return serviceError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func requestError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("transcription request: %w", err)
}

func serviceError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	detail := string(bytes.TrimSpace(body))
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		detail = "authentication failed: " + detail
	}
	return &ServiceError{StatusCode: resp.StatusCode, Detail: detail}
}
