// internal/app/system/ratelimit/middleware.go
package ratelimit

import (
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"go.uber.org/zap"
)

// Key identifies the caller: the signed-in user id, else the client IP.
func Key(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok && u.ID != "" {
		return "u:" + u.ID
	}
	return "ip:" + ClientIP(r)
}

// Middleware rejects mutating requests over the limit with 429. Reads
// (GET, HEAD, OPTIONS) are not counted. Limiter backend
// errors fail open and are logged.
func Middleware(l Allower, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafe(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			ok, err := l.Allow(r.Context(), Key(r))
			if err != nil {
				logger.Warn("rate limiter unavailable; allowing request", zap.Error(err))
				ok = true
			}
			if !ok {
				respond.JSON(w, http.StatusTooManyRequests, map[string]string{
					"error":   "rate_limited",
					"message": "too many requests, slow down",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isSafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
