package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a new unique id with the UUID hyphens stripped.
// User ids end up embedded in conversation ids joined by a hyphen,
// so the ids themselves must never contain one.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// IsValidID reports whether s looks like an id we issued:
// non-empty, hyphen-free, lowercase hex.
func IsValidID(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
