package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node and relation identifiers.
const maxIDLength = 256

// ValidateNodeID validates a node identifier before it is embedded in a
// selector such as node[id = "..."].
//
// The rules are conservative:
//   - No empty ids
//   - No control characters
//   - No double quotes or backslashes (they would break the selector literal)
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	return validateID("node", id)
}

// ValidateRelationID applies the same rules as [ValidateNodeID] to a relation id.
func ValidateRelationID(id string) error {
	return validateID("relation", id)
}

func validateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s id contains invalid control characters", kind)
		}
	}
	if strings.ContainsAny(id, "\"\\") {
		return New(ErrCodeInvalidInput, "%s id %q contains a quote or backslash", kind, id)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It only accepts the schemes followgraph connects to.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}
