package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServiceKeyMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		auth     string
		expected int
	}{
		{
			name:     "both headers match",
			apiKey:   "srk",
			auth:     "Bearer srk",
			expected: http.StatusOK,
		},
		{
			name:     "missing apikey",
			auth:     "Bearer srk",
			expected: http.StatusUnauthorized,
		},
		{
			name:     "missing bearer prefix",
			apiKey:   "srk",
			auth:     "srk",
			expected: http.StatusUnauthorized,
		},
		{
			name:     "wrong key",
			apiKey:   "other",
			auth:     "Bearer other",
			expected: http.StatusUnauthorized,
		},
	}

	handler := ServiceKeyMiddleware("srk")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/rest/v1/orgs", nil)
			if tt.apiKey != "" {
				r.Header.Set("apikey", tt.apiKey)
			}
			if tt.auth != "" {
				r.Header.Set("Authorization", tt.auth)
			}

			handler.ServeHTTP(w, r)
			require.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestRequestCounter(t *testing.T) {
	var counter RequestCounter

	handler := counter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for range 3 {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	require.Equal(t, int64(3), counter.Count())
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]int{"n": 1})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.JSONEq(t, `{"n":1}`, w.Body.String())
}
