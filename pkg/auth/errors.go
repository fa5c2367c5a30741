package auth

import "errors"

var (
	// ErrNoVerifier is returned by New without a token verifier.
	ErrNoVerifier = errors.New("auth: verifier is required")

	// ErrRoleLookup wraps failures of a RoleSource.
	ErrRoleLookup = errors.New("auth: role lookup failed")
)
