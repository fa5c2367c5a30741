// Package metrics times requests that pass through the pipeline.
//
// Stage stamps State.StartedAt and registers a completion hook, so the
// recorded duration covers every stage and the application handler. The
// OTelRecorder reports it as the gatekeeper.request.duration histogram with
// the response status, whether a tenant was resolved, and the locale.
package metrics
