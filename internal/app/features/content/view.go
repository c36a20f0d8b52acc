// internal/app/features/content/view.go
package content

import (
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
)

// ServeView handles GET /api/{kind}/{id}. Entities the caller may not see
// are reported as not found.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	k, id, err := target(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "view "+k.Name)
	defer cancel()

	out, err := h.Engine.Get(ctx, k, id, authz.ActorFromRequest(r))
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}
