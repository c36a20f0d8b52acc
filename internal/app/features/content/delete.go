// internal/app/features/content/delete.go
package content

import (
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/store/audit"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/moderation"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /api/{kind}/{id}. Deleting an event also
// drops its registration ledger; deleting a job drops its applications.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	k, id, err := target(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete "+k.Name)
	defer cancel()

	actor := authz.ActorFromRequest(r)
	if err := h.Engine.Delete(ctx, k, id, actor); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	if k == moderation.Event && h.Registrations != nil {
		if _, err := h.Registrations.DeleteByEvent(ctx, id); err != nil {
			h.Log.Warn("registration cleanup failed", zap.String("event_id", id.Hex()), zap.Error(err))
		}
	}
	if k == moderation.Job && h.Applications != nil {
		if _, err := h.Applications.DeleteByJob(ctx, id); err != nil {
			h.Log.Warn("application cleanup failed", zap.String("job_id", id.Hex()), zap.Error(err))
		}
	}
	h.Audit.Moderation(ctx, r, actor, audit.EventDeleted, k.Name, id, "")
	respond.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
