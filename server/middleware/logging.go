package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/memoscribe/logger"
)

// slowRequest marks requests worth flagging in the log.
const slowRequest = 5 * time.Second

var probePaths = map[string]bool{
	"/health": true,
	"/ready":  true,
	"/alive":  true,
}

// RequestLogger returns middleware that logs every request with method,
// path, status code and duration. Probe paths and static assets are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if probePaths[r.URL.Path] || strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				logger.FieldStatus, rec.code(),
				logger.FieldDuration, duration.Milliseconds(),
				"bytes", rec.written,
			)
			if duration > slowRequest {
				fields["slow"] = true
			}
			logByStatus(log.WithContext(r.Context()), fields, rec.code())
		})
	}
}

// logByStatus logs request fields at a level chosen by status class.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Info("Request completed", fields)
	}
}

// recorder captures the status and body size of a response. Flush and
// Unwrap reach the underlying writer.
type recorder struct {
	http.ResponseWriter
	status  int
	written int64
}

func (r *recorder) code() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func (r *recorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.written += int64(n)
	return n, err
}

func (r *recorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *recorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
