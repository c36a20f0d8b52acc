// internal/app/features/discussions/routes.go
package discussions

import (
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes registers reply and post creation on r (mounted at /api).
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/threads/{id}/replies", h.HandleReply)
		pr.Post("/groups/{id}/posts", h.HandlePost)
	})
}
