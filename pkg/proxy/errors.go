package proxy

import (
	"errors"
	"net/http"

	"mercator-hq/egress/pkg/egress"
	"mercator-hq/egress/pkg/envelope"
	"mercator-hq/egress/pkg/proxy/types"
)

// RequestError is a boundary-level rejection that happens before an envelope
// is decoded, such as a wrong content type or an oversized body.
type RequestError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// ToErrorResponse converts the error to the structured error shape.
func (e *RequestError) ToErrorResponse() *types.ErrorResponse {
	return types.NewErrorResponse(e.Status, e.Message)
}

// HandleError converts an error from any stage of request handling to the
// structured error shape.
//
// Example usage:
//
//	resp, err := actor.Serve(ctx, mode, body)
//	if err != nil {
//	    WriteError(w, HandleError(err))
//	    return
//	}
func HandleError(err error) *types.ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ToErrorResponse()
	}

	var valErr *envelope.ValidationError
	if errors.As(err, &valErr) {
		return types.NewInvalidRequestError(valErr.Error())
	}

	var transportErr *egress.TransportError
	if errors.As(err, &transportErr) {
		return types.NewBadGatewayError(transportErr.Error())
	}

	return types.NewServerError("internal error: " + err.Error())
}

// newUnsupportedMediaError reports a body that is not declared as JSON.
func newUnsupportedMediaError(contentType string) *RequestError {
	if contentType == "" {
		return &RequestError{Status: http.StatusBadRequest, Message: "Content-Type must be application/json"}
	}
	return &RequestError{Status: http.StatusBadRequest, Message: "Content-Type must be application/json, got " + contentType}
}
