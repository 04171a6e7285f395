package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrSourceUnavailable = errors.New("data source unavailable")
)
