package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kbukum/memoscribe/errors"
	"github.com/kbukum/memoscribe/logger"
)

// Recovery returns middleware that recovers from panics, logs the stack and
// answers with a 500 error envelope.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.WithContext(r.Context()).Error("Panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
					"path", r.URL.Path,
					"method", r.Method,
				))
				writeError(w, errors.Internal(nil))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes the JSON error envelope for handlers outside Gin.
func writeError(w http.ResponseWriter, err error) {
	status, body := errors.Respond(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
