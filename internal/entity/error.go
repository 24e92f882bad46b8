package entity

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrNotConfigured = errors.New("not configured")
	ErrInvalidInput  = errors.New("invalid input")
)
