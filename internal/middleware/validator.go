package middleware

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxTextBytes   = 100_000
	MaxSourceChars = 255
)

var sourcePattern = regexp.MustCompile(`^[A-Za-z0-9._:/?=&%#~+-]+$`)

// ValidateText rejects oversized or non UTF-8 input text. Empty text is
// accepted and analyzes to the fallback result.
func ValidateText(text string) error {
	if len(text) > MaxTextBytes {
		return fmt.Errorf("text too large: %d bytes (max %d)", len(text), MaxTextBytes)
	}
	if !utf8.ValidString(text) {
		return fmt.Errorf("text must be valid UTF-8")
	}
	return nil
}

// ValidateSource checks the optional source identifier (a domain or URL).
func ValidateSource(source string) error {
	if source == "" {
		return nil
	}
	if utf8.RuneCountInString(source) > MaxSourceChars {
		return fmt.Errorf("source too long (max %d chars)", MaxSourceChars)
	}
	if !sourcePattern.MatchString(source) {
		return fmt.Errorf("invalid source format")
	}
	return nil
}

// ValidateBatchSize checks the number of items in a batch request.
func ValidateBatchSize(n, limit int) error {
	if n == 0 {
		return fmt.Errorf("batch cannot be empty")
	}
	if limit > 0 && n > limit {
		return fmt.Errorf("batch too large: %d items (max %d)", n, limit)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}
