package utils

import (
	"html"
	"strings"
)

// SanitizeHTML escapes HTML entities to prevent XSS.
// Applied to message text and quick-reply templates before persistence.
func SanitizeHTML(input string) string {
	return html.EscapeString(input)
}

// EscapeSQLWildcards escapes SQL LIKE/ILIKE wildcard characters so that
// user input can be used safely in LIKE queries (contact search).
func EscapeSQLWildcards(input string) string {
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// TruncateString safely truncates a string to max length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
