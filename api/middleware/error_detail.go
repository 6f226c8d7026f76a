package middleware

import (
	"net/http"

	"github.com/angelmondragon/autoshop-backend/api/responses"
)

// ExposeErrorCauses makes error responses carry the underlying cause string.
// Only enable it outside production.
func ExposeErrorCauses(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(responses.WithCauseExposure(r.Context())))
		})
	}
}
