package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/mediagrab-go/internal/domain"
	"github.com/yourusername/mediagrab-go/pkg/logger"
)

// Notifier is told about finished downloads
type Notifier interface {
	NotifyDownloadCompleted(platform domain.Platform, format domain.Format, fileName string)
	NotifyDownloadFailed(url string, platform domain.Platform, err error)
}

// ErrHistoryDisabled is returned by history queries when no repository is configured
var ErrHistoryDisabled = errors.New("download history is disabled")

// DownloadManager runs validated requests through the downloader and keeps history
type DownloadManager struct {
	downloader   domain.Downloader
	repo         domain.HistoryRepository // may be nil
	notifier     Notifier                 // may be nil
	downloadsDir string
	logger       *zap.Logger
	eventLogger  *logger.MultiLogger // may be nil
	now          func() time.Time
}

// NewDownloadManager creates a new download manager
func NewDownloadManager(
	downloader domain.Downloader,
	repo domain.HistoryRepository,
	notifier Notifier,
	downloadsDir string,
	log *zap.Logger,
	eventLogger *logger.MultiLogger,
) *DownloadManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &DownloadManager{
		downloader:   downloader,
		repo:         repo,
		notifier:     notifier,
		downloadsDir: downloadsDir,
		logger:       log,
		eventLogger:  eventLogger,
		now:          time.Now,
	}
}

// DownloadsDir returns the directory downloads are written to
func (dm *DownloadManager) DownloadsDir() string {
	return dm.downloadsDir
}

// ProcessDownload downloads the media for req and blocks until yt-dlp is done
func (dm *DownloadManager) ProcessDownload(ctx context.Context, req *ValidatedRequest) (*domain.DownloadResult, error) {
	job := domain.NewDownloadJob(req.URL, req.Platform, req.Format, dm.downloadsDir, dm.now())
	record := domain.NewDownloadRecord(job)

	if dm.repo != nil {
		if err := dm.repo.Create(record); err != nil {
			// History is best effort; the download still runs
			dm.logger.Error("Failed to record download", zap.String("id", record.ID), zap.Error(err))
		}
	}

	dm.logEvent("download_started",
		zap.String("id", record.ID),
		zap.String("url", job.URL),
		zap.String("platform", string(job.Platform)),
		zap.String("format", string(job.Format)),
		zap.String("output", job.OutputPath))

	start := dm.now()
	result, err := dm.downloader.Download(ctx, job)
	duration := dm.now().Sub(start)

	if err != nil {
		timedOut := errors.Is(err, domain.ErrDownloadTimeout)
		record.MarkFailed(err, timedOut)
		dm.saveRecord(record)

		dm.logEvent("download_failed",
			zap.String("id", record.ID),
			zap.String("url", job.URL),
			zap.Bool("timed_out", timedOut),
			zap.Duration("duration", duration),
			zap.Error(err))
		if dm.eventLogger != nil {
			dm.eventLogger.LogAppError("Download failed", zap.String("id", record.ID), zap.Error(err))
		}

		if dm.notifier != nil {
			dm.notifier.NotifyDownloadFailed(job.URL, job.Platform, err)
		}
		return nil, err
	}

	record.MarkCompleted(result)
	dm.saveRecord(record)

	dm.logEvent("download_completed",
		zap.String("id", record.ID),
		zap.String("file", result.FileName),
		zap.Duration("duration", duration))

	if dm.notifier != nil {
		dm.notifier.NotifyDownloadCompleted(job.Platform, job.Format, result.FileName)
	}
	return result, nil
}

// RecoverInterrupted fails every record still marked processing. It is meant
// to run once at startup, before any download can be in flight.
func (dm *DownloadManager) RecoverInterrupted() (int, error) {
	if dm.repo == nil {
		return 0, nil
	}

	records, err := dm.repo.FindRecent(domain.StatusProcessing, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to load unfinished downloads: %w", err)
	}

	recovered := 0
	for _, record := range records {
		if record.IsTerminal() {
			continue
		}
		record.MarkFailed(domain.ErrDownloadInterrupted, false)
		if err := dm.repo.Update(record); err != nil {
			return recovered, fmt.Errorf("failed to update download %s: %w", record.ID, err)
		}
		recovered++
	}

	if recovered > 0 {
		dm.logger.Warn("Marked interrupted downloads as failed", zap.Int("count", recovered))
	}
	return recovered, nil
}

// ListFiles returns the names in the downloads directory, sorted.
// A missing directory yields (nil, false, nil).
func (dm *DownloadManager) ListFiles() ([]string, bool, error) {
	entries, err := os.ReadDir(dm.downloadsDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read downloads directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, true, nil
}

// History returns recent download records, newest first
func (dm *DownloadManager) History(status string, limit int) ([]*domain.DownloadRecord, error) {
	if dm.repo == nil {
		return nil, ErrHistoryDisabled
	}

	s := domain.DownloadStatus(strings.ToLower(status))
	if s != "" && !domain.ValidateStatus(s) {
		return nil, &domain.ValidationError{Field: "status", Err: fmt.Errorf("unknown status %q", status)}
	}
	return dm.repo.FindRecent(s, limit)
}

// Stats returns download statistics
func (dm *DownloadManager) Stats() (*domain.DownloadStats, error) {
	if dm.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return dm.repo.GetStats()
}

func (dm *DownloadManager) saveRecord(record *domain.DownloadRecord) {
	if dm.repo == nil {
		return
	}
	if err := dm.repo.Update(record); err != nil {
		dm.logger.Error("Failed to update download record", zap.String("id", record.ID), zap.Error(err))
	}
}

func (dm *DownloadManager) logEvent(event string, fields ...zap.Field) {
	if dm.eventLogger != nil {
		dm.eventLogger.LogDownloadEvent(event, fields...)
		return
	}
	dm.logger.Info(event, fields...)
}
