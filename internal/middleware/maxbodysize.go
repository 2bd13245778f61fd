package middleware

import "net/http"

// NewMaxBodySizeHandler returns a middleware that limits incoming request body
// sizes to limit bytes. Requests advertising a larger Content-Length are
// rejected with 413 before reaching the next handler; bodies without a length
// are wrapped in http.MaxBytesReader so the handler's read fails at the limit.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, http.StatusRequestEntityTooLarge, "request_too_large", "request body exceeds the size limit")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
