package infrastructure

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/mediagrab-go/internal/domain"
	"github.com/yourusername/mediagrab-go/pkg/logger"
)

// fakeYTDLP writes a shell script standing in for yt-dlp. The script
// resolves the -o template with the given extension, creates that file
// when ext is non-empty, and runs body before exiting.
func fakeYTDLP(t *testing.T, ext, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake yt-dlp needs a POSIX shell")
	}

	script := `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; shift; fi
  shift
done
echo "[download] Destination: $out"
echo "WARNING: fake warning" >&2
`
	if ext != "" {
		script += `touch "$(printf '%s' "$out" | sed 's/%(ext)s/` + ext + `/')"` + "\n"
	}
	script += body + "\n"

	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func newTestJob(t *testing.T, format domain.Format) *domain.DownloadJob {
	t.Helper()
	return domain.NewDownloadJob("https://www.youtube.com/watch?v=abc123", domain.PlatformYouTube, format, t.TempDir(), time.UnixMilli(1700000000000))
}

func newTestDownloader(binary string, timeout time.Duration) *YTDLPDownloader {
	config := domain.DefaultConfig().YTDLP
	config.Binary = binary
	config.Timeout = timeout
	return NewYTDLPDownloader(&config, zap.NewNop(), nil)
}

func TestBuildArgs_Video(t *testing.T) {
	d := newTestDownloader("yt-dlp", time.Minute)
	job := &domain.DownloadJob{URL: "https://youtu.be/abc", Platform: domain.PlatformYouTube, Format: domain.FormatVideo, OutputPath: "/tmp/dl/youtube_video_1"}

	args := d.BuildArgs(job)

	assert.Equal(t, []string{
		"-f", "best[ext=mp4]/best[vcodec=h264]/best",
		"--no-warnings",
		"--socket-timeout", "30",
		"--max-downloads", "1",
		"--no-playlist",
		"-o", "/tmp/dl/youtube_video_1.%(ext)s",
		"https://youtu.be/abc",
	}, args)
}

func TestBuildArgs_Audio(t *testing.T) {
	d := newTestDownloader("yt-dlp", time.Minute)
	job := &domain.DownloadJob{URL: "https://instagram.com/reel/xyz", Platform: domain.PlatformInstagram, Format: domain.FormatAudio, OutputPath: "/tmp/dl/instagram_audio_1"}

	args := d.BuildArgs(job)

	assert.Equal(t, []string{"-f", "bestaudio[ext=m4a]/bestaudio"}, args[:2])
	assert.Contains(t, args, "--no-playlist")
	assert.Equal(t, "https://instagram.com/reel/xyz", args[len(args)-1])
}

func TestBuildArgs_ExtractAudio(t *testing.T) {
	d := newTestDownloader("yt-dlp", time.Minute)
	d.config.ExtractAudio = true
	job := &domain.DownloadJob{URL: "https://youtu.be/abc", Format: domain.FormatAudio, OutputPath: "/tmp/a"}

	args := d.BuildArgs(job)

	assert.Equal(t, []string{"-x", "--audio-format", "m4a", "--audio-quality", "192"}, args[:5])
	assert.NotContains(t, args, "-f")
}

func TestBuildArgs_URLIsSingleArgument(t *testing.T) {
	d := newTestDownloader("yt-dlp", time.Minute)
	job := &domain.DownloadJob{URL: "https://www.youtube.com/watch?v=abc&list=x y", Format: domain.FormatVideo, OutputPath: "/tmp/with space/youtube_video_1"}

	args := d.BuildArgs(job)

	assert.Equal(t, job.URL, args[len(args)-1])
	assert.Contains(t, args, "/tmp/with space/youtube_video_1.%(ext)s")
}

func TestDownload_Success(t *testing.T) {
	d := newTestDownloader(fakeYTDLP(t, "mp4", "exit 0"), 10*time.Second)
	job := newTestJob(t, domain.FormatVideo)

	result, err := d.Download(context.Background(), job)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "youtube_video_1700000000000.mp4", result.FileName)
	assert.Equal(t, job.OutputPath+".mp4", result.FilePath)
	assert.FileExists(t, result.FilePath)
}

func TestDownload_MaxDownloadsExitCodeAccepted(t *testing.T) {
	d := newTestDownloader(fakeYTDLP(t, "m4a", "exit 101"), 10*time.Second)
	job := newTestJob(t, domain.FormatAudio)

	result, err := d.Download(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, "youtube_audio_1700000000000.m4a", result.FileName)
}

func TestDownload_ExitCodeRejectedWhenNotConfigured(t *testing.T) {
	d := newTestDownloader(fakeYTDLP(t, "mp4", "exit 101"), 10*time.Second)
	d.config.AcceptExitCode = []int{0}

	_, err := d.Download(context.Background(), newTestJob(t, domain.FormatVideo))

	var procErr *domain.ProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, 101, procErr.ExitCode)
}

func TestDownload_ExitFailureIncludesStderr(t *testing.T) {
	d := newTestDownloader(fakeYTDLP(t, "", `echo "ERROR: Unsupported URL" >&2; exit 1`), 10*time.Second)

	_, err := d.Download(context.Background(), newTestJob(t, domain.FormatVideo))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProcessExit))
	assert.False(t, errors.Is(err, domain.ErrDownloadTimeout))
	assert.Contains(t, err.Error(), "exited with code 1")
	assert.Contains(t, err.Error(), "ERROR: Unsupported URL")
}

func TestDownload_FileMissingAfterCleanExit(t *testing.T) {
	d := newTestDownloader(fakeYTDLP(t, "", "exit 0"), 10*time.Second)

	_, err := d.Download(context.Background(), newTestJob(t, domain.FormatVideo))

	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestDownload_Timeout(t *testing.T) {
	d := newTestDownloader(fakeYTDLP(t, "", "exec sleep 10"), 300*time.Millisecond)

	start := time.Now()
	_, err := d.Download(context.Background(), newTestJob(t, domain.FormatVideo))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDownloadTimeout)
	assert.False(t, errors.Is(err, domain.ErrProcessExit))
	assert.Less(t, time.Since(start), 8*time.Second)
}

func TestDownload_ProcessStartFailure(t *testing.T) {
	d := newTestDownloader(filepath.Join(t.TempDir(), "missing-yt-dlp"), time.Second)

	_, err := d.Download(context.Background(), newTestJob(t, domain.FormatVideo))

	assert.ErrorIs(t, err, domain.ErrProcessStart)
}

func TestDownload_BaseArgsPrecedeToolArgs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake yt-dlp needs a POSIX shell")
	}
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	script := "#!/bin/sh\necho \"$1 $2\" > " + argsFile + "\nexit 1\n"
	binary := filepath.Join(dir, "python")
	require.NoError(t, os.WriteFile(binary, []byte(script), 0755))

	d := newTestDownloader(binary, 5*time.Second)
	d.config.BaseArgs = []string{"-m", "yt_dlp"}

	_, err := d.Download(context.Background(), newTestJob(t, domain.FormatVideo))
	require.Error(t, err)

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "-m yt_dlp", strings.TrimSpace(string(data)))
}

func TestDownload_WritesOutputLog(t *testing.T) {
	logsDir := t.TempDir()
	ml, err := logger.NewMultiLogger(logger.MultiLoggerConfig{Level: "info", LogsDir: logsDir}, zap.NewNop())
	require.NoError(t, err)

	d := newTestDownloader(fakeYTDLP(t, "mp4", "exit 0"), 10*time.Second)
	d.eventLogger = ml

	_, err = d.Download(context.Background(), newTestJob(t, domain.FormatVideo))
	require.NoError(t, err)
	require.NoError(t, ml.Close())

	raw, err := os.ReadFile(logger.LogPath(logsDir, logger.CategoryOutput, time.Now()))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "--no-playlist")
	assert.Contains(t, string(raw), "[STDERR] WARNING: fake warning")
	assert.Contains(t, string(raw), "SUCCESS: Downloaded: youtube_video_1700000000000.mp4")
}

func TestFindOutputFile(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "instagram_video_5")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "youtube_video_5.mp4"), nil, 0644))
	require.NoError(t, os.WriteFile(prefix+".mp4.part", nil, 0644))

	_, err := FindOutputFile(prefix)
	assert.ErrorIs(t, err, domain.ErrFileNotFound)

	require.NoError(t, os.WriteFile(prefix+".webm", nil, 0644))
	require.NoError(t, os.WriteFile(prefix+".mp4", nil, 0644))

	result, err := FindOutputFile(prefix)
	require.NoError(t, err)
	assert.Equal(t, "instagram_video_5.mp4", result.FileName)
	assert.Equal(t, prefix+".mp4", result.FilePath)
}

func TestFindOutputFile_MissingDir(t *testing.T) {
	_, err := FindOutputFile(filepath.Join(t.TempDir(), "nope", "youtube_video_1"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrFileNotFound))
}

func TestLineWriter(t *testing.T) {
	var lines []string
	w := newLineWriter(func(line string) { lines = append(lines, line) })

	w.Write([]byte("first\nsec"))
	w.Write([]byte("ond\r[download]  50%\r\n\nlast"))
	w.Flush()

	assert.Equal(t, []string{"first", "second", "[download]  50%", "last"}, lines)
	assert.Equal(t, "first\nsecond\r[download]  50%\r\n\nlast", w.String())
}
