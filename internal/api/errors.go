// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for communicating with the DocChat
// backend.
package api

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the DocChat API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Status  int // HTTP status for rejected requests, 0 otherwise
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota

	// ErrTypeUnreachable covers transport-level failures: connection
	// refused, DNS, timeouts.
	ErrTypeUnreachable

	// ErrTypeRejected covers non-success responses from the backend,
	// either an HTTP error status or an envelope with status != success.
	ErrTypeRejected

	// ErrTypeMalformedResponse covers bodies that fail to decode into the
	// expected envelope shape.
	ErrTypeMalformedResponse

	// ErrTypeValidation covers local pre-network validation failures.
	// These never reach the wire.
	ErrTypeValidation
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeUnreachable, Message: "backend is unreachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeUnreachable, Message: "request timed out"}
)

// IsUnreachable checks if an error indicates the backend could not be reached.
func IsUnreachable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnreachable
	}
	return false
}

// IsRejected checks if an error is a backend rejection.
func IsRejected(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeRejected
	}
	return false
}

// IsMalformed checks if an error indicates a malformed response body.
func IsMalformed(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeMalformedResponse
	}
	return false
}

// IsValidation checks if an error is a local validation failure.
func IsValidation(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeValidation
	}
	return false
}

// UserMessage extracts a display string from an error: the server-provided
// message for rejections when available, a generic fallback otherwise.
func UserMessage(err error, fallback string) string {
	var clientErr *ClientError
	if errors.As(err, &clientErr) && clientErr.Message != "" {
		return clientErr.Message
	}
	return fallback
}
