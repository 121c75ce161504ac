// Package storage defines the errors shared between the mapping engine and
// its index implementations.
package storage

import "errors"

var (
	// ErrCodeNotFound is returned when an attempt is made to resolve or
	// delete a short code that doesn't exist.
	ErrCodeNotFound = errors.New("short code not found")
)
