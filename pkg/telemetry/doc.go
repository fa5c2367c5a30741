// Package telemetry wires OpenTelemetry tracing and metrics for the demo
// server. Exporters write to stdout; production deployments are expected to
// install their own providers before building the pipeline.
package telemetry
