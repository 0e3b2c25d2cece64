package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxIDLength   = 128
	maxNameLength = 256
)

// ValidateID validates a person, tree or user identifier.
//
// IDs end up in cache keys, Graphviz DOT source and SVG element IDs, so the
// rules are conservative:
//   - not empty, at most 128 bytes
//   - no whitespace or control characters
//   - no quotes, angle brackets or backslashes
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "ID cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "ID too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "ID %q contains whitespace or control characters", id)
		}
	}
	if strings.ContainsAny(id, "\"'<>\\") {
		return New(ErrCodeInvalidInput, "ID %q contains invalid characters", id)
	}
	return nil
}

// ValidateTreeName validates an optional display name. Empty is allowed.
func ValidateTreeName(name string) error {
	if name == "" {
		return nil
	}
	if !utf8.ValidString(name) {
		return New(ErrCodeInvalidTree, "tree name is not valid UTF-8")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidTree, "tree name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTree, "tree name contains control characters")
		}
	}
	return nil
}

// ValidateUserID validates a caller identity taken from a request header.
func ValidateUserID(id string) error {
	if id == "" {
		return New(ErrCodeUnauthorized, "missing user identity")
	}
	if err := ValidateID(id); err != nil {
		return Wrap(ErrCodeUnauthorized, err, "invalid user identity")
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}
