package uploads

import "errors"

var (
	// ErrInvalidInput marks validation failures on upload requests.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when no record matches the given identity.
	ErrNotFound = errors.New("upload not found")
)
