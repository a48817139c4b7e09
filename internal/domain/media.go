package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

// Platform represents the source platform of a media URL
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
)

// Format represents the requested media kind
type Format string

const (
	FormatVideo Format = "video"
	FormatAudio Format = "audio"
)

// Mode selects how a validated request is served
type Mode string

const (
	ModeStatic   Mode = "static"   // Return third-party service links only
	ModeDownload Mode = "download" // Run yt-dlp locally
)

// ExitCodeMaxDownloadsReached is what yt-dlp returns when --max-downloads stops it.
// With --max-downloads 1 a normal single download can end this way.
const ExitCodeMaxDownloadsReached = 101

// DownloadRequest is the decoded body of POST /api/download
type DownloadRequest struct {
	URL    string `json:"url"`
	Format Format `json:"format"`
}

// DownloadResult describes the file yt-dlp produced
type DownloadResult struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
}

// DownloadJob is a validated request ready to be handed to a Downloader
type DownloadJob struct {
	URL        string
	Platform   Platform
	Format     Format
	OutputPath string // destination path without extension
}

// NewDownloadJob builds a job whose output path is
// <dir>/<platform>_<format>_<unix millis>.
func NewDownloadJob(url string, platform Platform, format Format, dir string, now time.Time) *DownloadJob {
	return &DownloadJob{
		URL:        url,
		Platform:   platform,
		Format:     format,
		OutputPath: filepath.Join(dir, OutputBaseName(platform, format, now)),
	}
}

// OutputBaseName returns the extension-less file name for a download
func OutputBaseName(platform Platform, format Format, now time.Time) string {
	return fmt.Sprintf("%s_%s_%d", platform, format, now.UnixMilli())
}

// ValidateFormat checks if a format is supported
func ValidateFormat(format Format) bool {
	return format == FormatVideo || format == FormatAudio
}

// ValidateMode checks if a server mode is supported
func ValidateMode(mode Mode) bool {
	return mode == ModeStatic || mode == ModeDownload
}
