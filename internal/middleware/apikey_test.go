package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/bluetrail/internal/middleware"
)

func TestAPIKeyHandler_ValidKey_PassesThrough(t *testing.T) {
	h := middleware.NewAPIKeyHandler([]string{"alpha", "beta"})(trivialHandler)

	req := httptest.NewRequest(http.MethodPost, "/challenges", nil)
	req.Header.Set(middleware.APIKeyHeader, "beta")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyHandler_Rejects(t *testing.T) {
	h := middleware.NewAPIKeyHandler([]string{"alpha"})(trivialHandler)

	tests := []struct {
		name string
		key  string
	}{
		{"missing", ""},
		{"wrong", "gamma"},
		{"prefix", "alph"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/challenges", nil)
			if tc.key != "" {
				req.Header.Set(middleware.APIKeyHeader, tc.key)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "unauthorized", body.Error.Code)
		})
	}
}

// No configured keys means authentication is off.
func TestAPIKeyHandler_NoKeys_Disabled(t *testing.T) {
	h := middleware.NewAPIKeyHandler(nil)(trivialHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/challenges", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
