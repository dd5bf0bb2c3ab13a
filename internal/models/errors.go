package models

import "errors"

var (
	// ErrEventNotFound is returned when no event matches the requested id.
	ErrEventNotFound = errors.New("event not found")
	// ErrClientNotInitialized is returned when a repository is used without its client.
	ErrClientNotInitialized = errors.New("storage client is not initialized")
)
