package pipeline

import "net/http"

// Middleware is a single pipeline stage.
// It may write to st for later stages, terminate the chain by returning
// Terminate, or let the next stage run by returning Continue.
type Middleware func(r *http.Request, st *State) (Result, error)

// Result is the outcome of a stage: either continue or terminate with a response.
type Result struct {
	response   Response
	terminated bool
}

// Continue lets the next stage run.
func Continue() Result {
	return Result{}
}

// Terminate ends the chain with resp. A nil resp still stops the chain;
// Handler then reports ErrNilResponse.
func Terminate(resp Response) Result {
	return Result{response: resp, terminated: true}
}

// Terminated reports whether the chain must stop.
func (r Result) Terminated() bool {
	return r.terminated
}

// Response returns the terminal response, nil for Continue.
func (r Result) Response() Response {
	return r.response
}

// Compose chains stages into one middleware.
// Stages run in order; the first terminating result is returned and no later
// stage is invoked. An error aborts the chain and is returned as is. When the
// request context is done before a stage runs, the context error is returned.
func Compose(stages ...Middleware) Middleware {
	chain := make([]Middleware, 0, len(stages))
	for _, s := range stages {
		if s != nil {
			chain = append(chain, s)
		}
	}

	return func(r *http.Request, st *State) (Result, error) {
		for _, stage := range chain {
			if err := r.Context().Err(); err != nil {
				return Result{}, err
			}

			res, err := stage(r, st)
			if err != nil {
				return Result{}, err
			}
			if res.Terminated() {
				return res, nil
			}
		}
		return Continue(), nil
	}
}
