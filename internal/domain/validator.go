package domain

import (
	"regexp"
	"strings"
)

var (
	youtubeURLRegex   = regexp.MustCompile(`^(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/\S*$`)
	instagramURLRegex = regexp.MustCompile(`^(https?://)?(www\.)?instagram\.com/(p|reel|tv|stories)/\S*$`)

	shellMetaChars = ";&|`$(){}[]<>"

	// Matched against the lowercased input
	suspiciousSubstrings = []string{"../", "eval(", "exec(", "process."}
)

// IsValidYouTubeURL reports whether url looks like a YouTube link.
// Only the host shape is checked, the path is not interpreted.
func IsValidYouTubeURL(url string) bool {
	return youtubeURLRegex.MatchString(url)
}

// IsValidInstagramURL reports whether url is an Instagram post, reel, tv or story link
func IsValidInstagramURL(url string) bool {
	return instagramURLRegex.MatchString(url)
}

// ContainsSuspiciousPatterns reports whether url contains shell metacharacters,
// path traversal or script-injection fragments. Matching inputs are rejected
// outright, never cleaned.
func ContainsSuspiciousPatterns(url string) bool {
	if strings.ContainsAny(url, shellMetaChars) {
		return true
	}

	lower := strings.ToLower(url)
	for _, s := range suspiciousSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// DetectPlatform detects the platform from a URL
func DetectPlatform(url string) Platform {
	if IsValidYouTubeURL(url) {
		return PlatformYouTube
	}
	if IsValidInstagramURL(url) {
		return PlatformInstagram
	}
	return ""
}

// ValidatePlatform checks if a platform is valid
func ValidatePlatform(platform Platform) bool {
	return platform == PlatformYouTube || platform == PlatformInstagram
}
