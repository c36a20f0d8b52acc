// internal/app/features/content/list.go
package content

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/moderation"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
)

func listOptions(r *http.Request) moderation.ListOptions {
	q := r.URL.Query()
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	skip, _ := strconv.ParseInt(q.Get("skip"), 10, 64)
	return moderation.ListOptions{Status: q.Get("status"), Limit: limit, Skip: skip}
}

// ServeList handles GET /api/{kind}. Non-admins only ever see public
// entities and their own submissions; ?status narrows within that.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	k, err := kindParam(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list "+k.Collection)
	defer cancel()

	items, err := h.Engine.List(ctx, k, authz.ActorFromRequest(r), listOptions(r))
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"items": items})
}

// ServePending handles GET /api/admin/pending/{kind}.
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	k, err := kindParam(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "pending "+k.Collection)
	defer cancel()

	items, err := h.Engine.Pending(ctx, k, authz.ActorFromRequest(r), listOptions(r))
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"items": items})
}
