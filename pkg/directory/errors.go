package directory

import "errors"

var (
	// ErrTenantNotFound is returned when no tenant matches a lookup.
	ErrTenantNotFound = errors.New("directory: tenant not found")

	// ErrUserNotFound is returned when no user matches a lookup.
	ErrUserNotFound = errors.New("directory: user not found")

	// ErrDuplicateSlug is returned when a slug is already taken.
	ErrDuplicateSlug = errors.New("directory: duplicate tenant slug")

	// ErrDuplicateDomain is returned when a custom domain is already taken.
	ErrDuplicateDomain = errors.New("directory: duplicate tenant domain")

	// ErrInvalidRecord is returned when a record misses required fields.
	ErrInvalidRecord = errors.New("directory: invalid record")
)

// IsNotFound reports whether err is a tenant or user miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTenantNotFound) || errors.Is(err, ErrUserNotFound)
}
