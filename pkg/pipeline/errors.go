package pipeline

import "errors"

var (
	// ErrNilResponse is passed to the error handler when a stage terminates without a response.
	ErrNilResponse = errors.New("pipeline: terminated without response")

	// ErrNoState is returned by FromRequest when no pipeline state is found in context.
	ErrNoState = errors.New("pipeline: no state in context")
)
