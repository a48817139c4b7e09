package domain

import "context"

// Downloader defines the interface for fetching media with an external tool
type Downloader interface {
	// Download fetches job.URL to job.OutputPath plus a tool-chosen extension.
	// It blocks until the tool exits or its timeout elapses.
	Download(ctx context.Context, job *DownloadJob) (*DownloadResult, error)
}
