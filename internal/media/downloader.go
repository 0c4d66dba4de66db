package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"video-rag/pkg/executor"
)

// Downloader fetches the audio track of a remote video with yt-dlp.
type Downloader struct {
	exec    executor.Executor
	tempDir string
}

func NewDownloader(exec executor.Executor, tempDir string) *Downloader {
	return &Downloader{exec: exec, tempDir: tempDir}
}

// Download extracts the best audio track of the video as mp3 into the temp
// directory and returns the file path.
func (d *Downloader) Download(ctx context.Context, videoURL string) (string, error) {
	if err := os.MkdirAll(d.tempDir, 0755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	template := filepath.Join(d.tempDir, "%(id)s.%(ext)s")

	// --print after_move:filepath makes yt-dlp emit the final audio path on
	// stdout; --no-simulate keeps the download running despite --print.
	args := []string{
		"-f", "bestaudio/best",
		"-x", "--audio-format", "mp3",
		"-o", template,
		"--no-playlist",
		"--no-simulate",
		"--quiet",
		"--print", "after_move:filepath",
		videoURL,
	}

	out, err := d.exec.Execute(ctx, "yt-dlp", args...)
	if err != nil {
		return "", fmt.Errorf("yt-dlp download: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	path := strings.TrimSpace(lines[len(lines)-1])
	if path == "" {
		return "", fmt.Errorf("yt-dlp returned no output path")
	}

	log.Info().Str("path", path).Msg("Audio downloaded")
	return path, nil
}

// Cleanup removes a downloaded audio file. Failures are logged, not returned;
// a stale temp file never aborts the session.
func (d *Downloader) Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("Failed to remove temp audio")
	}
}
