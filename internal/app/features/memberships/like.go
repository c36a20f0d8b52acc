// internal/app/features/memberships/like.go
package memberships

import (
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/membership"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
)

type likeResponse struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// like returns a handler that toggles the caller in s. elemParam names the
// route parameter holding the element id of nested sets.
func (h *Handler) like(s *membership.Set, elemParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := authz.ActorFromRequest(r)
		if actor.Anonymous() {
			respond.Error(w, h.Log, apperr.ErrUnauthorized)
			return
		}
		t, err := setTarget(r, s, elemParam)
		if err != nil {
			respond.Error(w, h.Log, err)
			return
		}

		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, s.Name)
		defer cancel()

		liked, err := h.Mutator.Toggle(ctx, s, t, actor.ID, nil)
		if err != nil {
			respond.Error(w, h.Log, err)
			return
		}
		n, err := h.Mutator.Count(ctx, s, t)
		if err != nil {
			respond.Error(w, h.Log, err)
			return
		}
		respond.JSON(w, http.StatusOK, likeResponse{Liked: liked, Likes: n})
	}
}
