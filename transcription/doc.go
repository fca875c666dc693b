// Package transcription turns uploaded audio into text with one shared,
// lazily loaded speech model.
//
// Loader owns the model. The first caller of EnsureReady loads it on a
// dedicated single-slot pool; concurrent callers wait for that load, and
// later callers get the result from a single atomic read. A failed load is
// kept for the life of the process and returned to every caller as the same
// RESOURCE_UNAVAILABLE error; it is never retried.
//
// Pipeline runs one request through
//
//	validating -> awaiting_resource -> staged -> inferring -> succeeded | failed
//
// staging the upload to a temporary file, submitting the blocking model call
// to the inference pool, and deleting the file once the call has returned.
//
// Backends plug in through the Backend and Model interfaces; see the
// whispercli and whisper subpackages.
package transcription
