//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/mediagrab-go/internal/app"
	"github.com/yourusername/mediagrab-go/internal/domain"
	"github.com/yourusername/mediagrab-go/pkg/logger"
)

func TestDownloadWorkflow_Success(t *testing.T) {
	s := newStack(t, fakeYTDLP(t, ""), time.Minute)

	req, err := app.ValidateDownloadRequest(&app.RawDownloadRequest{URL: "https://youtu.be/abc", Format: "audio"})
	require.NoError(t, err)

	result, err := s.manager.ProcessDownload(context.Background(), req)
	require.NoError(t, err)
	assert.Regexp(t, `^youtube_audio_\d+\.m4a$`, result.FileName)
	assert.FileExists(t, filepath.Join(s.config.Download.Dir, result.FileName))

	records, err := s.repo.FindRecent(domain.StatusCompleted, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, result.FileName, records[0].FileName)

	raw, err := os.ReadFile(logger.LogPath(s.config.Download.LogsDir, logger.CategoryOutput, time.Now()))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[download] Destination:")
	assert.Contains(t, string(raw), "SUCCESS")
}

func TestDownloadWorkflow_ExitCode101IsSuccess(t *testing.T) {
	s := newStack(t, fakeYTDLP(t, `trap 'exit 101' EXIT`), time.Minute)

	req, err := app.ValidateDownloadRequest(&app.RawDownloadRequest{URL: "https://www.instagram.com/p/abc/", Format: "video"})
	require.NoError(t, err)

	result, err := s.manager.ProcessDownload(context.Background(), req)
	require.NoError(t, err)
	assert.Regexp(t, `^instagram_video_\d+\.mp4$`, result.FileName)
}

func TestDownloadWorkflow_TimeoutIsRecorded(t *testing.T) {
	s := newStack(t, fakeYTDLP(t, "exec sleep 10"), 300*time.Millisecond)

	req, err := app.ValidateDownloadRequest(&app.RawDownloadRequest{URL: "https://youtu.be/slow", Format: "video"})
	require.NoError(t, err)

	start := time.Now()
	_, err = s.manager.ProcessDownload(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDownloadTimeout))
	assert.Less(t, time.Since(start), 8*time.Second)

	stats, err := s.repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.TimedOut)

	files, _, err := s.manager.ListFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}
