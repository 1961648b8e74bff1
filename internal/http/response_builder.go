// Package http serves the ledger dashboard as a JSON API.
//
// This file implements the Builder Pattern for constructing JSON responses:
// status, headers and a body encoded once at write time, plus the error
// envelope shared by every handler.

package http

import (
	"encoding/json"
	"net/http"
)

// ErrorType classifies an API error for clients
type ErrorType string

const (
	ErrorInvalidDateRange ErrorType = "invalid_date_range"
	ErrorInvalidRequest   ErrorType = "invalid_request"
	ErrorUnknownColumn    ErrorType = "unknown_column"
	ErrorUnknownCategory  ErrorType = "unknown_category"
	ErrorNotReady         ErrorType = "not_ready"
	ErrorSourceFailed     ErrorType = "source_failed"
	ErrorRateLimited      ErrorType = "rate_limited"
	ErrorInternal         ErrorType = "internal"
)

// errorBody is the JSON envelope of every error response
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write encodes the body and sends the response. An unencodable body turns
// into a 500 error envelope.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) error {
	payload, err := json.Marshal(b.body)
	status := b.statusCode
	if err != nil {
		status = http.StatusInternalServerError
		payload, _ = json.Marshal(errorBody{Error: errorDetail{Type: ErrorInternal, Message: "failed to encode response"}})
	}

	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, werr := w.Write(append(payload, '\n'))
	if err != nil {
		return err
	}
	return werr
}

// ErrorResponse creates a standard error envelope.
func ErrorResponse(statusCode int, kind ErrorType, message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Body(errorBody{Error: errorDetail{Type: kind, Message: message}})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(kind ErrorType, message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, kind, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(kind ErrorType, message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, kind, message)
}

// ServiceUnavailableError creates a 503 Service Unavailable error response.
func ServiceUnavailableError(kind ErrorType, message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusServiceUnavailable, kind, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, ErrorInternal, message)
}
