// Package app runs one analyzer invocation.
//
// An App is built from the loaded configuration and owns the per-run
// collaborators: the output directories, the telemetry providers and the
// console writer that analysis reports are printed to. Run executes the
// pipeline for a Request:
//
//	load -> validate -> clean -> filter -> analyze -> export -> chart
//
// Every stage runs inside its own span and feeds the run metrics. Close
// flushes telemetry and writes the metrics file when one is configured.
package app
