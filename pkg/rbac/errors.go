package rbac

import "errors"

var (
	// ErrDuplicateRoute is returned when two routes normalize to the same prefix.
	ErrDuplicateRoute = errors.New("rbac: duplicate route prefix")

	// ErrInvalidRoute is returned for a route without a prefix.
	ErrInvalidRoute = errors.New("rbac: invalid route")

	// ErrLoadRouteTable wraps failures reading or decoding a route table file.
	ErrLoadRouteTable = errors.New("rbac: failed to load route table")
)
