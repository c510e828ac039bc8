package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/vfg2006/campaign-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-dashboard-api/pkg/log"
)

// DebugAuth guards operator routes with a static bearer key. An empty key
// leaves the routes open, which is the local development default.
func DebugAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apiErrors.WriteError(w, apiErrors.ErrUnauthorized, "Authorization header is required", nil)
				return
			}

			key := strings.TrimPrefix(authHeader, "Bearer ")
			if key == authHeader {
				apiErrors.WriteError(w, apiErrors.ErrUnauthorized, "Bearer token is required", nil)
				return
			}

			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				log.ForContext(r.Context()).WithField("path", r.URL.Path).Warn("debug: rejected operator key")
				apiErrors.WriteError(w, apiErrors.ErrUnauthorized, "Invalid operator key", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
