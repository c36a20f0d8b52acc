// internal/app/features/activity/handler.go
package activity

import (
	"net/http"
	"strconv"

	activitystore "github.com/dalemusser/guildhub/internal/app/store/activity"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves the caller's own activity feed.
type Handler struct {
	Store *activitystore.Store
	Log   *zap.Logger
}

func NewHandler(store *activitystore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

// ServeFeed handles GET /api/me/activity?limit=.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	actor := authz.ActorFromRequest(r)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "activity feed")
	defer cancel()

	items, err := h.Store.ListForUser(ctx, actor.ID, limit)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"items": items})
}
