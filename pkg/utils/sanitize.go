package utils

import "strings"

// EscapeSQLWildcards escapes SQL LIKE wildcard characters so user input
// matches literally.
func EscapeSQLWildcards(input string) string {
	// Escape backslash first (as it's the escape character)
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// SanitizeSearchQuery prepares a search string for a case-insensitive LIKE.
// Returns the lowered term wrapped with % for partial matching.
func SanitizeSearchQuery(input string) string {
	input = strings.TrimSpace(input)
	// Limit length to prevent DoS
	if len(input) > 100 {
		input = input[:100]
	}
	return "%" + EscapeSQLWildcards(strings.ToLower(input)) + "%"
}
