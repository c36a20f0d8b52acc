// internal/app/features/content/submit.go
package content

import (
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/store/audit"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
)

// HandleSubmit handles POST /api/{kind}.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	k, err := kindParam(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	ent, err := decodeEntity(r, k)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "submit "+k.Name)
	defer cancel()

	actor := authz.ActorFromRequest(r)
	out, err := h.Engine.Submit(ctx, k, ent, actor)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	h.Audit.Moderation(ctx, r, actor, audit.EventSubmitted, k.Name, out.Meta().ID, "")
	respond.JSON(w, http.StatusCreated, out)
}

// HandleSaveDraft handles POST /api/{kind}/drafts.
func (h *Handler) HandleSaveDraft(w http.ResponseWriter, r *http.Request) {
	k, err := kindParam(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	ent, err := decodeEntity(r, k)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "save draft "+k.Name)
	defer cancel()

	out, err := h.Engine.SaveDraft(ctx, k, ent, authz.ActorFromRequest(r))
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, out)
}

// HandleSubmitDraft handles POST /api/{kind}/{id}/submit.
func (h *Handler) HandleSubmitDraft(w http.ResponseWriter, r *http.Request) {
	k, id, err := target(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "submit draft "+k.Name)
	defer cancel()

	actor := authz.ActorFromRequest(r)
	out, err := h.Engine.SubmitDraft(ctx, k, id, actor)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	h.Audit.Moderation(ctx, r, actor, audit.EventSubmitted, k.Name, id, "")
	respond.JSON(w, http.StatusOK, out)
}
