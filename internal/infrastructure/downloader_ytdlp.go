package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/mediagrab-go/internal/domain"
	"github.com/yourusername/mediagrab-go/pkg/logger"
)

// Time yt-dlp gets to release its output pipes after being killed
const processWaitDelay = 5 * time.Second

// YTDLPDownloader implements domain.Downloader by running yt-dlp
type YTDLPDownloader struct {
	config      *domain.YTDLPConfig
	logger      *zap.Logger
	eventLogger *logger.MultiLogger // Raw output log; may be nil
}

// NewYTDLPDownloader creates a new yt-dlp downloader
func NewYTDLPDownloader(config *domain.YTDLPConfig, log *zap.Logger, eventLogger *logger.MultiLogger) *YTDLPDownloader {
	if log == nil {
		log = zap.NewNop()
	}
	return &YTDLPDownloader{
		config:      config,
		logger:      log,
		eventLogger: eventLogger,
	}
}

// BuildArgs builds the yt-dlp argument list for a job, excluding BaseArgs.
// exec.Command passes every element as-is, no shell quoting is involved.
func (d *YTDLPDownloader) BuildArgs(job *domain.DownloadJob) []string {
	var args []string

	if job.Format == domain.FormatAudio {
		if d.config.ExtractAudio {
			args = append(args, "-x", "--audio-format", d.config.AudioFormat, "--audio-quality", d.config.AudioQuality)
		} else {
			args = append(args, "-f", "bestaudio[ext=m4a]/bestaudio")
		}
	} else {
		args = append(args, "-f", "best[ext=mp4]/best[vcodec=h264]/best")
	}

	socketTimeout := d.config.SocketTimeout
	if socketTimeout <= 0 {
		socketTimeout = 30
	}

	args = append(args,
		"--no-warnings",
		"--socket-timeout", strconv.Itoa(socketTimeout),
		"--max-downloads", "1",
		"--no-playlist",
		"-o", job.OutputPath+".%(ext)s",
		job.URL,
	)
	return args
}

// Download runs yt-dlp for job and returns the file it produced
func (d *YTDLPDownloader) Download(ctx context.Context, job *domain.DownloadJob) (*domain.DownloadResult, error) {
	dir := filepath.Dir(job.OutputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create downloads directory: %w", err)
	}

	jobID := filepath.Base(job.OutputPath)
	args := append(append([]string{}, d.config.BaseArgs...), d.BuildArgs(job)...)

	cmdLine := ShellEscapeCommand(d.config.Binary, args...)
	d.logger.Info("Starting yt-dlp",
		zap.String("job", jobID),
		zap.String("platform", string(job.Platform)),
		zap.String("format", string(job.Format)),
		zap.String("command", cmdLine))
	if d.eventLogger != nil {
		d.eventLogger.WriteDownloadCommand(jobID, cmdLine)
	}

	timeout := d.config.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultConfig().YTDLP.Timeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	label := strings.ToUpper(string(job.Platform))
	stdout := newLineWriter(func(line string) { d.logLine(jobID, label, "stdout", line) })
	stderr := newLineWriter(func(line string) { d.logLine(jobID, label, "stderr", line) })

	cmd := exec.CommandContext(runCtx, d.config.Binary, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = processWaitDelay
	killProcessTree(cmd)

	if err := cmd.Start(); err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrProcessStart, err)
		d.complete(jobID, false, err.Error())
		return nil, err
	}

	waitErr := cmd.Wait()
	stdout.Flush()
	stderr.Flush()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		err := fmt.Errorf("%w (killed after %s)", domain.ErrDownloadTimeout, timeout)
		d.complete(jobID, false, err.Error())
		return nil, err
	}
	if ctx.Err() != nil {
		err := fmt.Errorf("download cancelled: %w", ctx.Err())
		d.complete(jobID, false, err.Error())
		return nil, err
	}

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			err := fmt.Errorf("%w: %v", domain.ErrProcessExit, waitErr)
			d.complete(jobID, false, err.Error())
			return nil, err
		}
		exitCode = exitErr.ExitCode()
	}

	if !d.acceptsExitCode(exitCode) {
		err := &domain.ProcessError{ExitCode: exitCode, Stderr: stderr.String()}
		d.complete(jobID, false, err.Error())
		return nil, err
	}
	if exitCode != 0 {
		d.logger.Debug("yt-dlp exit code accepted",
			zap.String("job", jobID),
			zap.Int("exit_code", exitCode))
	}

	result, err := FindOutputFile(job.OutputPath)
	if err != nil {
		d.complete(jobID, false, err.Error())
		return nil, err
	}

	d.complete(jobID, true, "Downloaded: "+result.FileName)
	return result, nil
}

// acceptsExitCode reports whether code counts as success.
// An empty policy accepts only 0.
func (d *YTDLPDownloader) acceptsExitCode(code int) bool {
	if len(d.config.AcceptExitCode) == 0 {
		return code == 0
	}
	for _, c := range d.config.AcceptExitCode {
		if c == code {
			return true
		}
	}
	return false
}

func (d *YTDLPDownloader) logLine(jobID, label, stream, line string) {
	d.logger.Debug("yt-dlp "+stream,
		zap.String("job", jobID),
		zap.String("platform", label),
		zap.String("line", line))
	if d.eventLogger != nil {
		d.eventLogger.WriteDownloadOutput(jobID, stream, line)
	}
}

func (d *YTDLPDownloader) complete(jobID string, success bool, message string) {
	if d.eventLogger != nil {
		d.eventLogger.WriteDownloadComplete(jobID, success, message)
	}
}

// FindOutputFile locates the file yt-dlp wrote for outputPath. The tool picks
// the extension, so the first directory entry (by name) starting with the
// base name wins. Leftover .part and .ytdl files are ignored.
func FindOutputFile(outputPath string) (*domain.DownloadResult, error) {
	dir := filepath.Dir(outputPath)
	prefix := filepath.Base(outputPath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to verify downloaded file: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if ext := filepath.Ext(name); ext == ".part" || ext == ".ytdl" {
			continue
		}
		return &domain.DownloadResult{
			Success:  true,
			FileName: name,
			FilePath: filepath.Join(dir, name),
		}, nil
	}

	return nil, domain.ErrFileNotFound
}

// lineWriter collects process output and hands it on one line at a time
type lineWriter struct {
	mu      sync.Mutex
	onLine  func(string)
	pending []byte
	all     bytes.Buffer
}

func newLineWriter(onLine func(string)) *lineWriter {
	return &lineWriter{onLine: onLine}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.all.Write(p)
	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexAny(w.pending, "\r\n")
		if i < 0 {
			break
		}
		if line := strings.TrimSpace(string(w.pending[:i])); line != "" {
			w.onLine(line)
		}
		w.pending = w.pending[i+1:]
	}
	return len(p), nil
}

// Flush emits a trailing line that had no newline
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if line := strings.TrimSpace(string(w.pending)); line != "" {
		w.onLine(line)
	}
	w.pending = nil
}

// String returns everything written so far
func (w *lineWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.all.String()
}
