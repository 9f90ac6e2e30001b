package errors

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidateSceneName validates a user-supplied scene name.
// Names become file names and store keys, so the rules are conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateSceneName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidScene, "scene name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidScene, "scene name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidScene, "scene name contains control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidScene, "scene name contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateSceneID validates a store document ID, which is always a UUID
// assigned by the store on first save.
func ValidateSceneID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidScene, "scene id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return New(ErrCodeInvalidScene, "scene id is not a valid UUID: %q", id)
	}
	return nil
}

// elementTypeRegex matches element type tags: lowercase identifiers with
// optional hyphenated segments ("laser", "beam-splitter").
var elementTypeRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// ValidateElementType validates an element type tag.
func ValidateElementType(typ string) error {
	if typ == "" {
		return New(ErrCodeInvalidElement, "element type cannot be empty")
	}
	if len(typ) > 64 {
		return New(ErrCodeInvalidElement, "element type too long (max 64 characters)")
	}
	if !elementTypeRegex.MatchString(typ) {
		return New(ErrCodeInvalidElement, "invalid element type: %q", typ)
	}
	return nil
}

// ValidatePath validates a scene file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateFormat validates a render format name against the supported set.
func ValidateFormat(format string, valid map[string]bool) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !valid[format] {
		return New(ErrCodeInvalidFormat, "unsupported format: %q", format)
	}
	return nil
}
