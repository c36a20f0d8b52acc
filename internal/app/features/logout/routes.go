package logout

import "github.com/go-chi/chi/v5"

// Routes registers POST /logout on the api router.
func Routes(r chi.Router, h *Handler) {
	r.Post("/logout", h.HandleLogout)
}
