package profile

import "errors"

var (
	// ErrFormat reports a malformed profile file or an unsupported format
	// version.
	ErrFormat = errors.New("invalid profile format")
	// ErrNotFound reports that no profile matches an identifier.
	ErrNotFound = errors.New("profile not found")
	// ErrConflict reports several profiles sharing an identifier.
	ErrConflict = errors.New("conflicting profile identifier")
	// ErrTypeMismatch reports managers content that cannot be combined.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrCycle reports a profile that inherits from itself.
	ErrCycle = errors.New("profile inheritance cycle")
)
