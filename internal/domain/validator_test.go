package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidYouTubeURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/watch?v=abc123", true},
		{"http://youtube.com/watch?v=abc123", true},
		{"youtube.com/shorts/xyz", true},
		{"https://youtu.be/abc123", true},
		{"https://www.youtube-nocookie.com/embed/abc", true},
		{"https://youtube.be/", true},
		{"https://example.com/video", false},
		{"https://www.youtube.com", false},
		{"https://www.youtube.com/watch?v=a b", false},
		{"ftp://youtube.com/watch", false},
		{"https://instagram.com/reel/xyz", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidYouTubeURL(tt.url))
		})
	}
}

func TestIsValidInstagramURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://instagram.com/reel/xyz", true},
		{"https://www.instagram.com/p/Cabc123/", true},
		{"instagram.com/tv/abc", true},
		{"http://instagram.com/stories/user/123", true},
		{"https://instagram.com/user", false},
		{"https://instagram.com/explore/tags/go", false},
		{"https://www.youtube.com/watch?v=abc123", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidInstagramURL(tt.url))
		})
	}
}

func TestContainsSuspiciousPatterns(t *testing.T) {
	for _, c := range []string{";", "&", "|", "`", "$", "(", ")", "{", "}", "[", "]", "<", ">"} {
		t.Run("metachar "+c, func(t *testing.T) {
			assert.True(t, ContainsSuspiciousPatterns("https://www.youtube.com/watch?v=abc"+c))
		})
	}

	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{"path traversal", "https://youtube.com/../etc/passwd", true},
		{"eval", "https://youtube.com/EVAL(x", true},
		{"exec", "https://youtube.com/exec(", true},
		{"process", "javascript:alert(1);process.exit()", true},
		{"process mixed case", "https://youtube.com/Process.env", true},
		{"clean youtube", "https://www.youtube.com/watch?v=abc123&t=10", true}, // & is a metacharacter
		{"clean youtube no query", "https://www.youtube.com/watch?v=abc123", false},
		{"clean instagram", "https://instagram.com/reel/xyz", false},
		{"single dot segment", "https://youtube.com/./watch", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsSuspiciousPatterns(tt.url))
		})
	}
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.youtube.com/watch?v=abc123", PlatformYouTube},
		{"https://youtu.be/abc123", PlatformYouTube},
		{"https://instagram.com/reel/xyz", PlatformInstagram},
		{"https://example.com/video", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestValidatePlatform(t *testing.T) {
	assert.True(t, ValidatePlatform(PlatformYouTube))
	assert.True(t, ValidatePlatform(PlatformInstagram))
	assert.False(t, ValidatePlatform("x"))
	assert.False(t, ValidatePlatform(""))
}
