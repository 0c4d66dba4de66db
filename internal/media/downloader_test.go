package media

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	name   string
	args   []string
	output string
	err    error
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args ...string) (string, error) {
	f.name = name
	f.args = args
	return f.output, f.err
}

func TestDownloadReturnsAudioPath(t *testing.T) {
	tempDir := t.TempDir()
	exec := &fakeExecutor{output: filepath.Join(tempDir, "abc123.mp3") + "\n"}
	downloader := NewDownloader(exec, tempDir)

	path, err := downloader.Download(context.Background(), "https://example.com/watch?v=abc123")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tempDir, "abc123.mp3"), path)
	assert.Equal(t, "yt-dlp", exec.name)
	assert.Contains(t, exec.args, "-x")
	assert.Contains(t, exec.args, "https://example.com/watch?v=abc123")
}

func TestDownloadCommandFailure(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("video unavailable")}
	downloader := NewDownloader(exec, t.TempDir())

	_, err := downloader.Download(context.Background(), "https://example.com/watch?v=gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yt-dlp download")
}

func TestDownloadEmptyOutput(t *testing.T) {
	exec := &fakeExecutor{output: "\n"}
	downloader := NewDownloader(exec, t.TempDir())

	_, err := downloader.Download(context.Background(), "https://example.com/watch?v=abc")
	require.Error(t, err)
}
