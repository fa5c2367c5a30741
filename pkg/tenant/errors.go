package tenant

import "errors"

var (
	// ErrNoDirectory is returned by NewResolver without a directory.
	ErrNoDirectory = errors.New("tenant: directory is required")

	// ErrResolveFailed wraps directory failures surfaced by Resolve.
	ErrResolveFailed = errors.New("tenant: resolution failed")
)
