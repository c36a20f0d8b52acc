// internal/app/features/memberships/registrations.go
package memberships

import (
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
)

// myRegistrations lists the caller's event registration history, newest
// first, cancelled records included.
func (h *Handler) myRegistrations(w http.ResponseWriter, r *http.Request) {
	actor := authz.ActorFromRequest(r)
	if actor.Anonymous() {
		respond.Error(w, h.Log, apperr.ErrUnauthorized)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "my registrations")
	defer cancel()

	regs, err := h.Registrations.ListForUser(ctx, actor.ID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"registrations": regs})
}
