// Package secrets loads the bearer secrets of the authorization gate from
// configuration and from a mounted token file, and keeps the gate current
// when the file is rotated.
package secrets

import "context"

// Source provides bearer secrets.
type Source interface {
	// Tokens returns the secrets currently provided. An empty result is
	// not an error.
	Tokens(ctx context.Context) ([]string, error)

	// Name identifies the source in logs.
	Name() string
}

// WatchableSource can report changes to its secrets.
type WatchableSource interface {
	Source

	// Watch calls onChange after every change until ctx is cancelled.
	Watch(ctx context.Context, onChange func()) error
}

// Static is a fixed list of secrets, typically auth.tokens or
// EGRESS_AUTH_TOKEN.
type Static []string

// Tokens returns a copy of the list.
func (s Static) Tokens(ctx context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}

// Name returns "config".
func (s Static) Name() string {
	return "config"
}
