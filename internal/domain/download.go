package domain

import (
	"time"

	"github.com/google/uuid"
)

// DownloadStatus represents the current status of a download
type DownloadStatus string

const (
	StatusProcessing DownloadStatus = "processing"
	StatusCompleted  DownloadStatus = "completed"
	StatusFailed     DownloadStatus = "failed"
)

// DownloadRecord is a history entry for one active download attempt
type DownloadRecord struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	URL          string         `json:"url" gorm:"not null"`
	Platform     Platform       `json:"platform" gorm:"not null;index"`
	Format       Format         `json:"format" gorm:"not null"`
	Status       DownloadStatus `json:"status" gorm:"not null;index"`
	FileName     string         `json:"file_name,omitempty"`
	FilePath     string         `json:"file_path,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	TimedOut     bool           `json:"timed_out,omitempty"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// NewDownloadRecord creates a history entry for a job that is about to start
func NewDownloadRecord(job *DownloadJob) *DownloadRecord {
	now := time.Now()
	return &DownloadRecord{
		ID:        uuid.New().String(),
		URL:       job.URL,
		Platform:  job.Platform,
		Format:    job.Format,
		Status:    StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkCompleted marks the download as completed
func (r *DownloadRecord) MarkCompleted(result *DownloadResult) {
	r.Status = StatusCompleted
	r.FileName = result.FileName
	r.FilePath = result.FilePath
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// MarkFailed marks the download as failed
func (r *DownloadRecord) MarkFailed(err error, timedOut bool) {
	r.Status = StatusFailed
	r.ErrorMessage = err.Error()
	r.TimedOut = timedOut
	now := time.Now()
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// IsTerminal checks if the download is in a terminal state
func (r *DownloadRecord) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

// ValidateStatus checks if a status filter value is known
func ValidateStatus(status DownloadStatus) bool {
	return status == StatusProcessing || status == StatusCompleted || status == StatusFailed
}
