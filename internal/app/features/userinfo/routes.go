// internal/app/features/userinfo/routes.go
package userinfo

import "github.com/go-chi/chi/v5"

// Routes registers GET /me on the api router. No auth middleware is
// needed because the handler checks the caller itself.
func Routes(r chi.Router, h *Handler) {
	r.Get("/me", h.ServeUserInfo)
}
