package errors

import (
	"strings"
	"unicode"
)

// maxSegmentLength bounds a single coordinate component.
const maxSegmentLength = 256

// ValidateSegment validates one coordinate component (groupId, artifactId or
// version) before it is turned into a filesystem path or URL.
//
// Components come from downloaded descriptors, so they are untrusted:
//   - No empty values
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - No unresolved placeholders
//   - Maximum length of 256 characters
func ValidateSegment(kind, value string) error {
	if value == "" {
		return New(ErrCodeInvalidCoordinate, "%s cannot be empty", kind)
	}

	if len(value) > maxSegmentLength {
		return New(ErrCodeInvalidCoordinate, "%s too long (max %d characters)", kind, maxSegmentLength)
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid control characters", kind)
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid characters: %q", kind, pattern)
		}
	}

	if strings.Contains(value, "${") {
		return New(ErrCodeInvalidCoordinate, "%s has an unresolved placeholder: %s", kind, value)
	}

	return nil
}

// ValidateCoordinate validates all three components of an artifact coordinate.
// Dots in the groupId are legal; they become directory separators later.
func ValidateCoordinate(groupID, artifactID, version string) error {
	if err := ValidateSegment("groupId", groupID); err != nil {
		return err
	}
	if strings.HasPrefix(groupID, ".") || strings.HasSuffix(groupID, ".") {
		return New(ErrCodeInvalidCoordinate, "groupId cannot start or end with a dot: %q", groupID)
	}
	if err := ValidateSegment("artifactId", artifactID); err != nil {
		return err
	}
	return ValidateSegment("version", version)
}

// ValidateURL validates a repository URL string.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidConfig, "URL must use http or https scheme: %q", rawURL)
	}

	return nil
}
