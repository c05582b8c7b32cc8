// Package cqrs implements the command/query layer of the post service: typed
// request values, one handler per request type, and a dispatcher that routes a
// request to its single registered handler.
//
// This file defines the typed, status-carrying error used by handlers to fail
// fast. The dispatcher never catches or translates these errors; they travel
// unchanged to the HTTP boundary, which maps them onto the JSON error envelope.
package cqrs

import "net/http"

// StatusError is a failure that already knows its HTTP mapping. Code is a
// stable machine-readable string, Message is safe to show to users.
type StatusError struct {
	Status  int    // HTTP status code
	Code    string // stable snake_case code, e.g. "not_found"
	Message string // human-readable description
}

// Error implements the error interface.
func (e *StatusError) Error() string { return e.Message }

// NotFound builds a 404 StatusError.
func NotFound(msg string) *StatusError {
	return &StatusError{Status: http.StatusNotFound, Code: "not_found", Message: msg}
}

// BadRequest builds a 400 StatusError.
func BadRequest(msg string) *StatusError {
	return &StatusError{Status: http.StatusBadRequest, Code: "bad_request", Message: msg}
}

// Internal builds a 500 StatusError.
func Internal(msg string) *StatusError {
	return &StatusError{Status: http.StatusInternalServerError, Code: "internal_error", Message: msg}
}

// User-facing messages shared between handlers and tests.
const (
	// PostNotFoundMessage is returned whenever a sid does not resolve to a
	// visible (non-deleted) post.
	PostNotFoundMessage = "The requested post is not present"

	// FileNotValidMessage is returned when an uploaded file is not an image.
	FileNotValidMessage = "Only Images are allowed"
)
