// Package auth configures optional bearer token authentication for the
// transcription API. Token handling lives in auth/jwt.
package auth
