// Package textproc cleans scraped text before it reaches the pricing and
// classification stages.
package textproc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	noiseRe     = regexp.MustCompile(`[^\p{L}\p{N}_\s.,$€£¥+%-]`)
	spaceRe     = regexp.MustCompile(`\s+`)
	thousandsRe = regexp.MustCompile(`(\d),(\d{3})`)

	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize removes noise characters, collapses whitespace, drops
// thousand separators inside digit groups and trims the result.
// It is total: empty input yields empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := norm.NFC.String(text)
	s = noiseRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	// non-overlapping matches leave "1234,567" after one pass
	for {
		next := thousandsRe.ReplaceAllString(s, "${1}${2}")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

// Fold lowercases s and strips combining accents, for keyword matching.
func Fold(s string) string {
	out, _, err := transform.String(stripAccents, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// ContainsAny reports whether folded text contains any of the keywords.
func ContainsAny(folded string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}
