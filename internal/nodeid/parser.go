// internal/nodeid/parser.go
package nodeid

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidName is returned when a task name does not follow the naming schema.
var ErrInvalidName = errors.New("invalid task name")

// segmentRegex is used to validate a single segment of a task name.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// isValidSegmentName checks for undesirable but technically valid names.
func isValidSegmentName(name string) bool {
	return name != "-" && name != "_"
}

// ValidateName checks that a task name is a non-empty, dot-separated
// sequence of segments made of letters, digits, '_' and '-'.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	for _, segment := range strings.Split(name, ".") {
		if segment == "" {
			return fmt.Errorf("%w: %q contains an empty segment", ErrInvalidName, name)
		}
		if !segmentRegex.MatchString(segment) {
			return fmt.Errorf("%w: invalid segment %q in %q", ErrInvalidName, segment, name)
		}
		if !isValidSegmentName(segment) {
			return fmt.Errorf("%w: invalid segment name %q", ErrInvalidName, segment)
		}
	}
	return nil
}
