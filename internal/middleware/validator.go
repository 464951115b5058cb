package middleware

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var assetIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidateAssetID validates asset identifier format
func ValidateAssetID(assetID string) error {
	if assetID == "" {
		return fmt.Errorf("asset_id cannot be empty")
	}
	if !assetIDPattern.MatchString(assetID) {
		return fmt.Errorf("invalid asset_id format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateFileURL validates the image reference URL
func ValidateFileURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("file_url cannot be empty")
	}

	if strings.HasPrefix(rawURL, "data:") {
		// inline data URL; payload shape is the gateway's concern
		return nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (allowed: http, https)", u.Scheme)
	}
	return nil
}

// ValidateMimeType checks the declared MIME type of inline uploads
func ValidateMimeType(mime string) error {
	if mime == "" {
		return nil // optional, defaults to image/jpeg
	}
	if !strings.HasPrefix(mime, "image/") && !strings.HasPrefix(mime, "video/") {
		return fmt.Errorf("unsupported mime_type: %s", mime)
	}
	return nil
}

// ValidateFileType checks the asset type field
func ValidateFileType(t string) error {
	if t == "" {
		return nil // optional, defaults to image
	}
	if t != "image" && t != "video" {
		return fmt.Errorf("invalid file_type: %s (allowed: image, video)", t)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidatePageSize clamps pagination size
func ValidatePageSize(size int) int {
	if size <= 0 {
		return 20 // default
	}
	if size > 100 {
		return 100 // max
	}
	return size
}

// ValidatePage clamps page numbers
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}
