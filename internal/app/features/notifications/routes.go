// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes registers the inbox endpoints on r (mounted at /api).
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/notifications", h.ServeList)
		pr.Get("/notifications/unread-count", h.ServeUnreadCount)
		pr.Post("/notifications/read-all", h.HandleReadAll)
		pr.Post("/notifications/{id}/read", h.HandleRead)
	})
}
