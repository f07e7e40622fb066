package session

import "errors"

// Sentinel kinds for session errors.
var (
	ErrNoDataset = errors.New("no dataset loaded")
)
