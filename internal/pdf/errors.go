package pdf

import "fmt"

// InvalidInputError reports a file rejected at the upload boundary before
// any document state changed: wrong extension, not a regular file, empty,
// oversized, or unreadable as a PDF. The caller re-prompts the user.
type InvalidInputError struct {
	Path   string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Path, e.Reason)
}

// invalidInput is a shorthand constructor.
func invalidInput(path, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
