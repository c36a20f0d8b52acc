// internal/app/features/content/moderate.go
package content

import (
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/store/audit"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
)

type rejectInput struct {
	Reason string `json:"reason"`
}

type closeInput struct {
	Status string `json:"status"`
}

// HandleApprove handles POST /api/{kind}/{id}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	k, id, err := target(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "approve "+k.Name)
	defer cancel()

	actor := authz.ActorFromRequest(r)
	out, err := h.Engine.Approve(ctx, k, id, actor)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	h.Audit.Moderation(ctx, r, actor, audit.EventApproved, k.Name, id, "")
	respond.JSON(w, http.StatusOK, out)
}

// HandleReject handles POST /api/{kind}/{id}/reject. The body is optional.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	k, id, err := target(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	var in rejectInput
	if r.ContentLength != 0 {
		if err := respond.Decode(r, &in); err != nil {
			respond.Error(w, h.Log, err)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "reject "+k.Name)
	defer cancel()

	actor := authz.ActorFromRequest(r)
	out, err := h.Engine.Reject(ctx, k, id, actor, in.Reason)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	h.Audit.Moderation(ctx, r, actor, audit.EventRejected, k.Name, id, out.Meta().RejectionReason)
	respond.JSON(w, http.StatusOK, out)
}

// HandleClose handles POST /api/{kind}/{id}/close.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	k, id, err := target(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	var in closeInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "close "+k.Name)
	defer cancel()

	actor := authz.ActorFromRequest(r)
	out, err := h.Engine.Close(ctx, k, id, actor, in.Status)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	h.Audit.Moderation(ctx, r, actor, audit.EventClosed, k.Name, id, in.Status)
	respond.JSON(w, http.StatusOK, out)
}
