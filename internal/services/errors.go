package services

import "errors"

var (
	ErrPatternNotFound   = errors.New("exam pattern not found")
	ErrInvalidPattern    = errors.New("exam pattern is invalid")
	ErrUnknownInstance   = errors.New("test instance not found or already scored")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
