package domain

import "errors"

// Domain errors
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrModelNotFound    = errors.New("model not found")
	ErrStoreUnavailable = errors.New("transaction store not configured")
	ErrInternalError    = errors.New("internal error")
)
