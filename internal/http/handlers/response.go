// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all endpoints:
// the structured error envelope, consistent JSON serialization, and helpers
// for the common success shapes. Every failure path in the API funnels
// through fail(), so clients always receive the same envelope.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "The requested post is not present",
//	  "status": 404
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-post-service/internal/cqrs"
	"github.com/tbourn/go-post-service/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// RequestID is the correlation id echoed from the X-Request-ID header so
// client errors can be matched against server logs. Code is a stable
// machine-readable string (see errors.go). Status duplicates the HTTP status
// in the body for clients that lose the transport status.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"not_found"`
	Message   string `json:"message" example:"The requested post is not present"`
	Status    int    `json:"status" example:"404"`
}

// fail aborts the request with a structured error envelope.
//
// Server errors (>=500) are logged through the request-scoped logger so every
// 5xx leaves a trace with request context attached.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
		Status:    status,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for callers outside this package
// (router-level 404/405 handlers).
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failErr maps an error from the dispatch layer onto the envelope. A
// *cqrs.StatusError carries its own status, code and message; anything else
// is an internal error with the given fallback code.
func failErr(c *gin.Context, err error, fallbackCode string) {
	var se *cqrs.StatusError
	if errors.As(err, &se) {
		code := se.Code
		if code == "" {
			code = fallbackCode
		}
		fail(c, se.Status, code, se.Message)
		return
	}
	fail(c, http.StatusInternalServerError, fallbackCode, err.Error())
}

// ok writes a success JSON response with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes an HTTP 204 No Content response.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
