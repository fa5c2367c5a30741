package gatekeeper

import "errors"

// Configuration errors are reported together by Config.Validate.
var (
	ErrMissingAppDomain  = errors.New("gatekeeper: app domain is required")
	ErrMissingJWTSecret  = errors.New("gatekeeper: jwt secret is required")
	ErrUnknownRoleSource = errors.New("gatekeeper: unknown role source")
)

var (
	// ErrNoDirectory is returned by New without a directory.
	ErrNoDirectory = errors.New("gatekeeper: directory is required")

	// ErrBuildPipeline wraps failures constructing a pipeline stage.
	ErrBuildPipeline = errors.New("gatekeeper: failed to build pipeline")
)
