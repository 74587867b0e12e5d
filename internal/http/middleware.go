package http

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
)

// ServiceKeyMiddleware rejects requests that do not carry the service key in both
// the apikey header and a bearer Authorization header, as Supabase does for
// service-role callers.
func ServiceKeyMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("apikey")
			bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || !equal(apiKey, key) || !equal(bearer, key) {
				WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid API key"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// RequestCounter counts requests passing through it.
type RequestCounter struct {
	count atomic.Int64
}

// Middleware returns the counting middleware.
func (c *RequestCounter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.count.Add(1)
		next.ServeHTTP(w, r)
	})
}

// Count returns the number of requests seen so far.
func (c *RequestCounter) Count() int64 {
	return c.count.Load()
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
