// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "net/http"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// New builds an envelope whose Status is the standard reason phrase for code.
func New(code int, msg string) *APIError {
	return &APIError{StatusCode: code, Status: http.StatusText(code), Message: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	APIError
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{
		APIError: *New(http.StatusBadRequest, "Error de validacion"),
		Fields:   fields,
	}
}

// Internal is the only body ever sent for a 500.
func Internal() *APIError {
	return New(http.StatusInternalServerError, "Error interno del servidor")
}
