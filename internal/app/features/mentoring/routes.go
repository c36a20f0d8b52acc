// internal/app/features/mentoring/routes.go
package mentoring

import (
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes registers slot and booking endpoints on r (mounted at /api).
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/mentors/{id}/slots", h.HandleAddSlot)
		pr.Post("/mentors/{id}/slots/{slotID}/book", h.HandleBook)
	})
}
