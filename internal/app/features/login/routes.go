package login

import "github.com/go-chi/chi/v5"

// Routes registers POST /login on the api router.
func Routes(r chi.Router, h *Handler) {
	r.Post("/login", h.HandleLogin)
}
