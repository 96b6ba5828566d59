package errors

import (
	"net/url"
	"strings"
)

// ValidateURL checks that a string is a valid HTTP or HTTPS URL.
// Returns an Error with ErrCodeInvalidInput if validation fails.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL format: %s", rawURL)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme, got: %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return New(ErrCodeInvalidInput, "URL must have a host: %s", rawURL)
	}

	return nil
}

// ValidateOutputPath checks that a string is a plausible output file path.
// Returns an Error with ErrCodeInvalidUsage if validation fails.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidUsage, "output path cannot be empty")
	}
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidUsage, "output path cannot be whitespace")
	}
	return nil
}

// ValidateGeometry checks atlas geometry parameters for sanity.
// Returns an Error with ErrCodeInvalidGeometry if validation fails.
func ValidateGeometry(tileSize, spacing, fontGrid, rowsToAdd int) error {
	if tileSize <= 0 {
		return New(ErrCodeInvalidGeometry, "tile size must be positive, got %d", tileSize)
	}
	if spacing < 0 {
		return New(ErrCodeInvalidGeometry, "spacing cannot be negative, got %d", spacing)
	}
	if fontGrid <= 0 {
		return New(ErrCodeInvalidGeometry, "font grid must be positive, got %d", fontGrid)
	}
	if rowsToAdd < 0 {
		return New(ErrCodeInvalidGeometry, "rows to add cannot be negative, got %d", rowsToAdd)
	}
	return nil
}

// ValidateScale checks a preview scale factor.
// Returns an Error with ErrCodeInvalidScale if validation fails.
func ValidateScale(scale int) error {
	if scale < 1 || scale > 8 {
		return New(ErrCodeInvalidScale, "scale must be between 1 and 8, got %d", scale)
	}
	return nil
}
