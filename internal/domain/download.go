package domain

import (
	"fmt"
	"strings"
)

// Platform selects the extraction path on the backend
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
)

// Platforms lists the supported platforms in display order
var Platforms = []Platform{PlatformYouTube, PlatformInstagram}

// ValidatePlatform checks if a platform is valid
func ValidatePlatform(platform Platform) bool {
	return platform == PlatformYouTube || platform == PlatformInstagram
}

// ParsePlatform converts user input into a Platform
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !ValidatePlatform(p) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPlatform, s)
	}
	return p, nil
}

// SubmitRequest is the payload of the submit call
type SubmitRequest struct {
	Link     string   `json:"link"`
	Platform Platform `json:"platform"`
}

// SubmitResult is a prepared file announced by the backend
type SubmitResult struct {
	FileURL           string // path as returned by the backend
	DownloadReference string // absolute URL for the streamed fetch
}

// ResolveReference builds the download reference from the backend origin and
// the returned file path. The two are concatenated as-is.
func ResolveReference(origin, fileURL string) string {
	return origin + fileURL
}

// Progress is reported after every received chunk
type Progress struct {
	Received int64
	Total    int64 // -1 when the size was not declared
	Percent  int
	Chunks   int
}

// Known reports whether a percentage can be derived
func (p Progress) Known() bool {
	return p.Total > 0
}

// ComputePercent returns round(received/total*100) clamped to 0..100.
// It returns 0 when total is unknown.
func ComputePercent(received, total int64) int {
	if total <= 0 || received <= 0 {
		return 0
	}
	if received >= total {
		return 100
	}
	return int((received*100 + total/2) / total)
}

// ProgressFunc receives progress after every chunk
type ProgressFunc func(Progress)

// FetchResult is a fully assembled download
type FetchResult struct {
	Data        []byte
	ContentType string
	Chunks      int
}
