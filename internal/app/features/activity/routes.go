// internal/app/features/activity/routes.go
package activity

import (
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes registers the activity feed on r (mounted at /api).
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/me/activity", h.ServeFeed)
	})
}
