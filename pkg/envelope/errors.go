package envelope

// ValidationError reports an envelope that cannot be turned into an outbound call.
type ValidationError struct {
	// Field is the JSON name of the offending field, or "body" for
	// document-level problems.
	Field string

	// Message is safe to return to the caller.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
