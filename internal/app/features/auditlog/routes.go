// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes registers the admin audit trail on the api router.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin", "superadmin"))

		pr.Get("/admin/audit", h.ServeList)
	})
}
