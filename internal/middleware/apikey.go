package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// APIKeyHeader carries the client's API key.
const APIKeyHeader = "X-API-KEY"

// NewAPIKeyHandler rejects requests whose X-API-KEY header matches none of
// keys with 401. An empty key list disables the check.
func NewAPIKeyHandler(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !validKey(r.Header.Get(APIKeyHeader), keys) {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// validKey compares against every key so timing does not reveal which one
// matched.
func validKey(got string, keys []string) bool {
	ok := 0
	for _, k := range keys {
		ok |= subtle.ConstantTimeCompare([]byte(got), []byte(k))
	}
	return got != "" && ok == 1
}

// writeError writes the API's JSON error envelope.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": msg},
	})
}
