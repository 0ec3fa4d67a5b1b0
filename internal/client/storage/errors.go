package storage

import "errors"

// Common client storage errors
var (
	// ErrTokensNotFound indicates that no complete token pair is stored
	ErrTokensNotFound = errors.New("session tokens not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
