// internal/app/features/seminars/routes.go
package seminars

import (
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes registers the seminar endpoints on r (mounted at /api). Creating
// seminars and changing their status requires CapManageSeminars.
func Routes(r chi.Router, h *Handler, az authz.Checker) {
	r.Get("/seminars", h.ServeList)
	r.Get("/seminars/{id}", h.ServeView)

	r.Group(func(ar chi.Router) {
		ar.Use(authz.RequireCapability(az, authz.CapManageSeminars))
		ar.Post("/seminars", h.HandleCreate)
		ar.Post("/seminars/{id}/status", h.HandleStatus)
	})
}
