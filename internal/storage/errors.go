package storage

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrOpenSessionExists is returned when creating a session for an owner
	// that already has an open one.
	ErrOpenSessionExists = errors.New("an open session already exists for this owner")
)
