package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID prefixes for newly created records. Records migrated from older data may
// carry bare UUIDs, so ids are never validated by prefix.
const (
	UserPrefix        = "usr"
	BookPrefix        = "bk"
	TransactionPrefix = "tan"
)

// GenerateID generates a unique ID with the given prefix
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

// NewToken returns an opaque single-use token.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CleanName trims surrounding whitespace from a user supplied name.
func CleanName(name string) string {
	return strings.TrimSpace(name)
}

// SameEmail compares two addresses the way uniqueness is enforced: trimmed and
// case-insensitive.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
