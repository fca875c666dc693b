package middleware

import (
	"net/http"

	"github.com/kbukum/memoscribe/errors"
	"github.com/kbukum/memoscribe/util"
)

const defaultMaxBodySize = 100 * 1024 * 1024 // 100MB

// BodySizeLimit returns middleware that restricts the request body to the given
// size string (e.g. "10MB", "512KB", "1GB"). Readers past the limit get an
// *http.MaxBytesError.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				writeError(w, errors.PayloadTooLarge())
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
