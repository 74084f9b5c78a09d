package bookrepo

import "errors"

var (
	ErrNotFound     = errors.New("book not found")
	ErrUnknownOwner = errors.New("book owner does not exist")
)
