package utils

import "strings"

// SanitizeIdentifier makes an agent identifier safe for filesystem paths and
// metric labels. Agent ids are opaque strings chosen by the host and may
// contain separators like "claude_sonnet4:001".
func SanitizeIdentifier(id string) string {
	sanitized := strings.ReplaceAll(id, ":", "-")
	sanitized = strings.ReplaceAll(sanitized, " ", "-")
	sanitized = strings.ReplaceAll(sanitized, "/", "-")
	sanitized = strings.ReplaceAll(sanitized, "\\", "-")
	return sanitized
}
