// internal/app/features/content/routes.go
package content

import (
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes registers the content API on r, which is mounted at /api.
// Routes are added to r directly so the more specific membership routes
// (e.g. /events/{id}/registration) can share the same tree.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	// Reads are public; visibility is decided per viewer.
	r.Get("/{kind}", h.ServeList)
	r.Get("/{kind}/{id}", h.ServeView)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/{kind}", h.HandleSubmit)
		pr.Post("/{kind}/drafts", h.HandleSaveDraft)
		pr.Post("/{kind}/{id}/submit", h.HandleSubmitDraft)
		pr.Patch("/{kind}/{id}", h.HandleEdit)
		pr.Delete("/{kind}/{id}", h.HandleDelete)
	})

	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireRole("admin", "superadmin"))

		ar.Post("/{kind}/{id}/approve", h.HandleApprove)
		ar.Post("/{kind}/{id}/reject", h.HandleReject)
		ar.Post("/{kind}/{id}/close", h.HandleClose)
		ar.Get("/admin/pending/{kind}", h.ServePending)
	})
}
