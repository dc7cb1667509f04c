package client

import "errors"

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConflict              = errors.New("profile was changed by another session")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)
