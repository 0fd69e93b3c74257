package main

import "errors"

var (
	ErrDBRequired   = errors.New("db required")
	ErrFileRequired = errors.New("file required")
	ErrNameRequired = errors.New("name required")
)
