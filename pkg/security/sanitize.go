package security

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	htmlTagsRegex = regexp.MustCompile(`<[^>]*>`)

	scriptPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)on\w+\s*=`), // onclick, onload, etc.
	}
)

// SanitizeString removes null bytes and control characters from input.
// It is deliberately conservative: place names and street names arrive in
// Ukrainian and must pass through untouched.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return removeControlCharacters(input)
}

// SanitizeInput strips markup and script vectors while preserving text
func SanitizeInput(input string, maxLength int) string {
	input = SanitizeString(input)
	for _, pattern := range scriptPatterns {
		input = pattern.ReplaceAllString(input, "")
	}
	input = StripHTMLTags(input)
	input = NormalizeWhitespace(input)
	if maxLength > 0 {
		input = TruncateString(input, maxLength)
	}
	return input
}

// StripHTMLTags removes all HTML tags from input
func StripHTMLTags(input string) string {
	return htmlTagsRegex.ReplaceAllString(input, "")
}

// NormalizeWhitespace collapses runs of whitespace into single spaces
func NormalizeWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// TruncateString truncates a string to a maximum length
func TruncateString(input string, maxLength int) string {
	if len(input) <= maxLength {
		return input
	}
	return input[:maxLength]
}

// removeControlCharacters removes control characters except newlines and tabs
func removeControlCharacters(input string) string {
	var result strings.Builder
	for _, r := range input {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
