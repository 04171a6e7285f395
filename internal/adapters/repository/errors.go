package repository

import "errors"

// Sentinel kinds for rankings-store errors.
var (
	ErrNotFound     = errors.New("reviewer not found")
	ErrUnknownView  = errors.New("unknown ranking view")
	ErrInvalidLimit = errors.New("invalid ranking limit")
	ErrNotReady     = errors.New("rankings not built yet")
)
