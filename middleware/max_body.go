package middleware

import (
	"net/http"
	"strings"
)

const defaultMaxBody = int64(1 << 20)

// MaxBodyMiddleware caps the request body at max bytes (1 MiB when max <= 0).
// Multipart uploads are left to the handler, which applies its own limit.
func MaxBodyMiddleware(max int64) func(http.Handler) http.Handler {
	if max <= 0 {
		max = defaultMaxBody
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}
