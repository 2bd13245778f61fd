// Package middleware provides reusable HTTP middleware for the certification API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// The API key header is allowed so browser clients can authenticate.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", APIKeyHeader},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
