package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds each request with a deadline. Store calls take the request
// context, so a slow query is cancelled instead of holding a connection.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
