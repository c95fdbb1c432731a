package results

import (
	"errors"
)

var (
	ErrUnknownDestination = errors.New("unknown destination")
	ErrAuthFailure        = errors.New("authentication/authorization failure")
	ErrRemoteWrite        = errors.New("remote write failed")
	ErrInvalidCell        = errors.New("invalid cell")
	ErrColumnConflict     = errors.New("column allocation conflict")
)
