package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/mediagrab-go/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  mode: static
download:
  dir: /tmp/media
ytdlp:
  timeout: 90s
  base_args: ["-m", "yt_dlp"]
  binary: python3
  accept_exit_codes: [0]
history:
  enabled: false
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, domain.ModeStatic, config.Server.Mode)
	assert.Equal(t, "/tmp/media", config.Download.Dir)
	assert.Equal(t, 90*time.Second, config.YTDLP.Timeout)
	assert.Equal(t, "python3", config.YTDLP.Binary)
	assert.Equal(t, []string{"-m", "yt_dlp"}, config.YTDLP.BaseArgs)
	assert.Equal(t, []int{0}, config.YTDLP.AcceptExitCode)
	assert.False(t, config.History.Enabled)

	// Untouched keys keep their defaults
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 5, config.RateLimit.DownloadRequest)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")
	t.Setenv("PORT", "4000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("MEDIAGRAB_YTDLP_BINARY", "/opt/yt-dlp")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4000, config.Server.Port)
	assert.True(t, config.Server.IsProduction())
	assert.Equal(t, "/opt/yt-dlp", config.YTDLP.Binary)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad port", "server:\n  port: 70000\n"},
		{"bad mode", "server:\n  mode: stream\n"},
		{"zero timeout", "ytdlp:\n  timeout: 0s\n"},
		{"zero download limit", "rate_limit:\n  download_requests: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/Downloads", expandPath("$HOME/Downloads"))
	assert.Equal(t, "/var/media", expandPath("/var/media"))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "media"), expandPath("~/media"))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	config := domain.DefaultConfig()
	config.Server.Port = 9090
	config.Server.Mode = domain.ModeStatic

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SaveConfig(config, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, loaded.Server.Port)
	assert.Equal(t, domain.ModeStatic, loaded.Server.Mode)
	assert.Equal(t, config.YTDLP.Timeout, loaded.YTDLP.Timeout)
}
