package envelope

import (
	"fmt"
	"strings"
)

// Method is a normalized, lower-case HTTP method.
type Method string

// Supported methods.
const (
	MethodGet     Method = "get"
	MethodPost    Method = "post"
	MethodPut     Method = "put"
	MethodDelete  Method = "delete"
	MethodPatch   Method = "patch"
	MethodHead    Method = "head"
	MethodOptions Method = "options"
)

// DefaultMethod is used when the envelope omits the method.
const DefaultMethod = MethodPost

var knownMethods = map[string]Method{
	"get":     MethodGet,
	"post":    MethodPost,
	"put":     MethodPut,
	"delete":  MethodDelete,
	"patch":   MethodPatch,
	"head":    MethodHead,
	"options": MethodOptions,
}

// NormalizeMethod maps a caller supplied method to a Method, ignoring case.
// An empty string yields DefaultMethod.
func NormalizeMethod(raw string) (Method, error) {
	if raw == "" {
		return DefaultMethod, nil
	}

	m, ok := knownMethods[strings.ToLower(raw)]
	if !ok {
		return "", &ValidationError{
			Field:   "method",
			Message: fmt.Sprintf("invalid method %q: must be one of get, post, put, delete, patch, head, options", raw),
		}
	}
	return m, nil
}

// UsesQuery reports whether params travel in the query string for this method.
// All other methods carry params as a JSON body.
func (m Method) UsesQuery() bool {
	switch m {
	case MethodGet, MethodHead, MethodDelete:
		return true
	default:
		return false
	}
}

// HTTP returns the method in the upper-case form used on the wire.
func (m Method) HTTP() string {
	return strings.ToUpper(string(m))
}
