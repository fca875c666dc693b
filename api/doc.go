// Package api exposes the transcription pipeline over HTTP and serves the
// bundled frontend.
package api
