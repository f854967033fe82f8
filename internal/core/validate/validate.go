// Package validate provides shared validation functions for command input.
package validate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hay-kot/criterio"
)

// GUID validates a todo item GUID: non-empty, no surrounding whitespace and
// no control characters.
func GUID(guid string) error {
	if strings.TrimSpace(guid) == "" {
		return fmt.Errorf("guid is required")
	}
	if strings.TrimSpace(guid) != guid {
		return fmt.Errorf("guid %q has leading or trailing whitespace", guid)
	}
	if strings.IndexFunc(guid, unicode.IsControl) >= 0 {
		return fmt.Errorf("guid %q contains control characters", guid)
	}
	return nil
}

// GUIDField returns a criterio validator for GUIDs.
func GUIDField(field, guid string) error {
	return criterio.Run(field, guid, GUID)
}

// FieldKey validates an item field key: non-empty with no whitespace, colons
// or control characters.
func FieldKey(key string) error {
	if key == "" {
		return fmt.Errorf("field key is required")
	}
	if strings.IndexFunc(key, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r) || r == ':'
	}) >= 0 {
		return fmt.Errorf("field key %q contains invalid characters", key)
	}
	return nil
}

// ParseAssignment splits a "key=value" argument. The value may be empty or
// contain further '=' characters.
func ParseAssignment(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	if err := FieldKey(key); err != nil {
		return "", "", err
	}
	return key, value, nil
}
