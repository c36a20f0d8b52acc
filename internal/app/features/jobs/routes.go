// internal/app/features/jobs/routes.go
package jobs

import (
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes registers the job application endpoints on r (mounted at /api).
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/jobs/{id}/apply", h.HandleApply)
		pr.Get("/jobs/{id}/applications", h.ServeApplications)
		pr.Get("/me/applications", h.ServeMyApplications)
		pr.Get("/me/saved-jobs", h.ServeSavedJobs)
	})
}
