// internal/app/features/jobs/saved.go
package jobs

import (
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/moderation"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
)

// ServeSavedJobs handles GET /api/me/saved-jobs. The list goes through the
// visibility filter, so a saved job that was later closed or rejected
// drops out for everyone but its poster.
func (h *Handler) ServeSavedJobs(w http.ResponseWriter, r *http.Request) {
	actor := authz.ActorFromRequest(r)
	if actor.Anonymous() {
		respond.Error(w, h.Log, apperr.ErrUnauthorized)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "saved jobs")
	defer cancel()

	items, err := h.Engine.List(ctx, moderation.Job, actor, moderation.ListOptions{
		Where: bson.M{"saved_by": actor.ID},
	})
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"items": items})
}
