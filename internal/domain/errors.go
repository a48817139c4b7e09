package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Input errors. All of them are reported to the client as 400.
var (
	ErrMalformedBody     = errors.New("malformed request body")
	ErrMissingFields     = errors.New("missing url or format")
	ErrInvalidFormat     = errors.New(`format must be "video" or "audio"`)
	ErrUnsupportedURL    = errors.New("invalid URL, please provide a valid YouTube or Instagram link")
	ErrSuspiciousPattern = errors.New("invalid URL format detected")
)

// Download errors. All of them are reported to the client as 500.
var (
	ErrProcessStart    = errors.New("failed to start yt-dlp")
	ErrDownloadTimeout = errors.New("download timeout: the media took too long to download, please try again")
	ErrProcessExit     = errors.New("yt-dlp process failed")
	ErrFileNotFound    = errors.New("file not found after download")
)

// ErrDownloadInterrupted marks history records the server stopped tracking
// before yt-dlp finished, for example after a crash.
var ErrDownloadInterrupted = errors.New("download interrupted by server shutdown")

// ValidationError wraps an input error with the offending field
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is a client input error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ProcessError is returned when yt-dlp exits with a code outside the accepted set
type ProcessError struct {
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("yt-dlp process exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("yt-dlp process exited with code %d: %s", e.ExitCode, stderr)
}

func (e *ProcessError) Unwrap() error {
	return ErrProcessExit
}
