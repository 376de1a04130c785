package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeID validates a scenario node identifier.
//
// Identifiers are referenced from scenario steps and appear in log output, so
// the rules are conservative:
//   - No empty identifiers
//   - Maximum length of 128 characters
//   - Letters, digits, '_', '-', '.' and ':' only
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidScenario, "node id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidScenario, "node id too long (max 128 characters)")
	}
	if !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidScenario, "invalid node id: %q", id)
	}
	return nil
}

var nodeIDRegex = regexp.MustCompile(`^[A-Za-z0-9_.:-]+$`)

// ValidateLabel validates a node or edge label.
// Labels are rendered as SVG text, so control characters are rejected.
func ValidateLabel(label string) error {
	if len(label) > 256 {
		return New(ErrCodeInvalidScenario, "label too long (max 256 characters)")
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidScenario, "label contains invalid control characters")
		}
	}
	return nil
}

// ValidateOutputDir validates a directory that frames will be written into.
// It rejects empty paths and paths containing null bytes or control characters.
func ValidateOutputDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "output directory cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output directory contains invalid characters")
		}
	}
	return nil
}
