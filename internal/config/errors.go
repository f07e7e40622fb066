package config

import "errors"

// Sentinel kinds for configuration errors.
var (
	ErrEmptyAddr      = errors.New("addr must not be empty")
	ErrBadAnchor      = errors.New("sample_anchor must be a YYYY-MM-DD date")
	ErrBadViewLimit   = errors.New("max_view_limit must be positive")
	ErrBadUploadBytes = errors.New("max_upload_bytes must be positive")
)
