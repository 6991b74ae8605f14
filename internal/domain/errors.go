package domain

import "errors"

var (
	ErrClipNotFound = errors.New("clip not found")
	ErrNotFound     = errors.New("not found")
)
