// internal/app/features/content/edit.go
package content

import (
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/store/audit"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
)

// HandleEdit handles PATCH /api/{kind}/{id}.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	k, id, err := target(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	patch, err := decodePatch(r, k)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "edit "+k.Name)
	defer cancel()

	actor := authz.ActorFromRequest(r)
	out, err := h.Engine.Edit(ctx, k, id, actor, patch)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	h.Audit.Moderation(ctx, r, actor, audit.EventEdited, k.Name, id, "")
	respond.JSON(w, http.StatusOK, out)
}
