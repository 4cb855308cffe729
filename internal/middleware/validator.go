package middleware

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidateSessionID validates session ID format
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session ID cannot be empty")
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid session ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateDocumentID validates document ID format
func ValidateDocumentID(id string) error {
	if id == "" {
		return fmt.Errorf("document ID cannot be empty")
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid document ID format")
	}
	return nil
}

// ValidateFileName rejects names that could escape a storage prefix.
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if len(name) > 255 || !utf8.ValidString(name) {
		return fmt.Errorf("invalid file name")
	}
	if filepath.Base(name) != name || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("file name must not contain path separators")
	}
	return nil
}

// SanitizeString drops NUL and control characters. Spaces are kept, a
// search for " " is a real query.
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
	return result.String()
}

// ValidateBatchSize caps the number of files in one upload.
func ValidateBatchSize(n, max int) error {
	if max > 0 && n > max {
		return fmt.Errorf("too many files in one upload: %d (max %d)", n, max)
	}
	return nil
}
