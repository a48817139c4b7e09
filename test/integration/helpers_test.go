//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/mediagrab-go/internal/app"
	"github.com/yourusername/mediagrab-go/internal/domain"
	"github.com/yourusername/mediagrab-go/internal/infrastructure"
	"github.com/yourusername/mediagrab-go/pkg/logger"
)

// fakeYTDLP writes a POSIX shell script that behaves like yt-dlp: it
// resolves the -o template to an .mp4/.m4a file and creates it, then runs body.
func fakeYTDLP(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake yt-dlp needs a POSIX shell")
	}

	script := `#!/bin/sh
out=""
ext="mp4"
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift ;;
    bestaudio*) ext="m4a" ;;
  esac
  shift
done
echo "[download] Destination: $out"
` + body + `
touch "$(printf '%s' "$out" | sed "s/%(ext)s/$ext/")"
`
	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

type stack struct {
	config  *domain.Config
	repo    *infrastructure.SQLiteHistoryRepository
	logs    *logger.MultiLogger
	manager *app.DownloadManager
}

func newStack(t *testing.T, binary string, timeout time.Duration) *stack {
	t.Helper()

	base := t.TempDir()
	config := domain.DefaultConfig()
	config.Download.Dir = filepath.Join(base, "Downloads")
	config.Download.LogsDir = filepath.Join(base, "logs")
	config.History.DatabasePath = filepath.Join(base, "history.db")
	config.YTDLP.Binary = binary
	config.YTDLP.Timeout = timeout
	config.RateLimit.Enabled = false

	logs, err := logger.NewMultiLogger(logger.MultiLoggerConfig{Level: "info", LogsDir: config.Download.LogsDir}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { logs.Close() })

	repo, err := infrastructure.NewSQLiteHistoryRepository(config.History.DatabasePath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	downloader := infrastructure.NewYTDLPDownloader(&config.YTDLP, nil, logs)
	manager := app.NewDownloadManager(downloader, repo, nil, config.Download.Dir, nil, logs)

	return &stack{config: config, repo: repo, logs: logs, manager: manager}
}
