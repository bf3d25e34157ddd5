package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"
	"sync/atomic"
)

// BearerScheme is the only accepted authorization scheme. The prefix is
// matched exactly, including the trailing space.
const BearerScheme = "Bearer "

// TokenValidator checks bearer secrets in constant time. It is safe for
// concurrent use, including Replace during validation.
type TokenValidator struct {
	// digests of the accepted secrets; hashing first keeps the comparison
	// length independent of the secret
	digests atomic.Pointer[[][sha256.Size]byte]
}

// NewTokenValidator creates a validator accepting any of tokens.
// Empty tokens are ignored.
func NewTokenValidator(tokens []string) *TokenValidator {
	v := &TokenValidator{}
	v.Replace(tokens)
	return v
}

// Replace swaps the accepted secrets. Requests already being validated
// finish against the previous set.
func (v *TokenValidator) Replace(tokens []string) {
	digests := make([][sha256.Size]byte, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		digests = append(digests, sha256.Sum256([]byte(t)))
	}
	v.digests.Store(&digests)
}

// Validate checks the raw Authorization header value.
func (v *TokenValidator) Validate(header string) error {
	if header == "" {
		return ErrMissingCredential
	}

	token, ok := strings.CutPrefix(header, BearerScheme)
	if !ok {
		return ErrMalformedCredential
	}

	digest := sha256.Sum256([]byte(token))
	accepted := *v.digests.Load()
	match := 0
	for i := range accepted {
		// every configured secret is compared so timing does not reveal which matched
		match |= subtle.ConstantTimeCompare(digest[:], accepted[i][:])
	}
	if match != 1 || token == "" {
		return ErrInvalidCredential
	}
	return nil
}

// Len returns the number of accepted secrets.
func (v *TokenValidator) Len() int {
	return len(*v.digests.Load())
}
