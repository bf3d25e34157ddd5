package types

import "net/http"

// ErrorResponse is the structured error shape. The HTTP status of the reply
// equals Status.
type ErrorResponse struct {
	// Status is in [400, 599].
	Status int `json:"status"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response. Statuses outside [400, 599]
// are reported as 500.
func NewErrorResponse(status int, message string) *ErrorResponse {
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	return &ErrorResponse{Status: status, Message: message}
}

// NewInvalidRequestError creates an error response for invalid envelopes (400).
func NewInvalidRequestError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusBadRequest, message)
}

// NewServerError creates an error response for internal server errors (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusInternalServerError, message)
}

// NewBadGatewayError creates an error response for upstream transport failures (502).
func NewBadGatewayError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusBadGateway, message)
}

// NewMethodNotAllowedError creates an error response for non-POST calls to the boundary (405).
func NewMethodNotAllowedError(method string) *ErrorResponse {
	return NewErrorResponse(http.StatusMethodNotAllowed, "method "+method+" not allowed, use POST")
}
