package store

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnknownSheet = errors.New("unknown sheet")
)
