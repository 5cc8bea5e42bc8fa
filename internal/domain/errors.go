package domain

import "errors"

var (
	ErrMissingEmoji = errors.New("required emoji missing from guild")
	ErrNotFound     = errors.New("not found")
)
