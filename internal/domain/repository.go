package domain

// HistoryRepository defines the interface for download history persistence
type HistoryRepository interface {
	// Create creates a new record
	Create(record *DownloadRecord) error

	// Update updates an existing record
	Update(record *DownloadRecord) error

	// FindByID finds a record by ID
	FindByID(id string) (*DownloadRecord, error)

	// FindRecent returns the newest records first, optionally filtered by status
	FindRecent(status DownloadStatus, limit int) ([]*DownloadRecord, error)

	// GetStats returns download statistics
	GetStats() (*DownloadStats, error)
}

// DownloadStats represents download statistics
type DownloadStats struct {
	Total      int64 `json:"total"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	TimedOut   int64 `json:"timed_out"`
}
