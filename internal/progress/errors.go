package progress

import "errors"

var (
	// ErrInvalidArgument reports a bad word index, accuracy or duration.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound reports a word that does not exist.
	ErrNotFound = errors.New("not found")
)
