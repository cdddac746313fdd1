package services

import "errors"

var (
	// ErrInvalidInput marks request payloads that fail validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedProvider is returned for OAuth providers the service does not know.
	ErrUnsupportedProvider = errors.New("unsupported oauth provider")
	// ErrProviderNotConfigured is returned for known providers without client credentials.
	ErrProviderNotConfigured = errors.New("oauth provider not configured")
)
