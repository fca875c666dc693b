// Package errors provides the structured error type used across memoscribe.
// Every error that can reach a client carries a machine-readable code, the
// message shown to the caller, the HTTP status it maps to and, optionally,
// the underlying cause.
package errors
