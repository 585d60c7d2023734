// Package validation holds the syntactic checks applied to credential submissions
// before any storage is touched. Every check is pure and rejects the empty string,
// so a missing request field fails the check for that field.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

// MinPasswordLength is the shortest accepted password, in UTF-16 code units.
const MinPasswordLength = 6

// emailPattern is a loose syntactic check, not RFC 5322. It is unanchored:
// any substring of the form x@y.z is enough.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Password reports whether s satisfies the password policy: at least
// MinPasswordLength UTF-16 code units, any content. A character outside the
// Basic Multilingual Plane counts as two.
func Password(s string) bool {
	return len(utf16.Encode([]rune(s))) >= MinPasswordLength
}

// NonEmpty reports whether s has content after trimming whitespace.
func NonEmpty(s string) bool {
	return len(strings.TrimSpace(s)) > 0
}
