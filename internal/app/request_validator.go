package app

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/yourusername/mediagrab-go/internal/domain"
)

// RawDownloadRequest is the download request body before any checks.
// Fields are untyped so a non-string url can be told apart from a missing one.
type RawDownloadRequest struct {
	URL    any `json:"url"`
	Format any `json:"format"`
}

// ValidatedRequest is a download request that passed every input check
type ValidatedRequest struct {
	URL      string
	Platform domain.Platform
	Format   domain.Format
}

// DecodeDownloadRequest parses a request body holding exactly one JSON value.
// Trailing data after the object, a non-object value or null all fail with
// domain.ErrMalformedBody.
func DecodeDownloadRequest(body io.Reader) (*RawDownloadRequest, error) {
	dec := json.NewDecoder(body)

	var raw *RawDownloadRequest
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, &domain.ValidationError{Err: domain.ErrMalformedBody}
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, &domain.ValidationError{Err: domain.ErrMalformedBody}
	}
	return raw, nil
}

// ValidateDownloadRequest checks a decoded request body. Checks run in a fixed
// order and the first failure is returned as a *domain.ValidationError.
func ValidateDownloadRequest(raw *RawDownloadRequest) (*ValidatedRequest, error) {
	if raw == nil {
		return nil, &domain.ValidationError{Err: domain.ErrMalformedBody}
	}

	url, ok := raw.URL.(string)
	if !ok || url == "" {
		return nil, &domain.ValidationError{Field: "url", Err: domain.ErrMissingFields}
	}
	format, ok := raw.Format.(string)
	if !ok || format == "" {
		return nil, &domain.ValidationError{Field: "format", Err: domain.ErrMissingFields}
	}

	if !domain.ValidateFormat(domain.Format(format)) {
		return nil, &domain.ValidationError{Field: "format", Err: domain.ErrInvalidFormat}
	}

	url = strings.TrimSpace(url)
	platform := domain.DetectPlatform(url)
	if platform == "" {
		return nil, &domain.ValidationError{Field: "url", Err: domain.ErrUnsupportedURL}
	}

	if domain.ContainsSuspiciousPatterns(url) {
		return nil, &domain.ValidationError{Field: "url", Err: domain.ErrSuspiciousPattern}
	}

	return &ValidatedRequest{
		URL:      url,
		Platform: platform,
		Format:   domain.Format(format),
	}, nil
}

// Advice is the static-mode answer: where to download the media instead
type Advice struct {
	Success          bool                     `json:"success"`
	Message          string                   `json:"message"`
	Platform         domain.Platform          `json:"platform"`
	Format           domain.Format            `json:"format"`
	URL              string                   `json:"url"`
	DownloadServices []domain.DownloadService `json:"downloadServices"`
}

// BuildAdvice returns the fixed service list for a validated request
func BuildAdvice(req *ValidatedRequest) *Advice {
	return &Advice{
		Success:          true,
		Message:          "Use one of these free services to download:",
		Platform:         req.Platform,
		Format:           req.Format,
		URL:              req.URL,
		DownloadServices: domain.ServicesFor(req.Platform),
	}
}
