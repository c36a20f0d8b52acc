// internal/app/features/discussions/handler.go
package discussions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	documentstore "github.com/dalemusser/guildhub/internal/app/store/documents"
	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler appends thread replies and group posts. Each new element starts
// with an empty like set so the like toggles can address it.
type Handler struct {
	Store documentstore.Store
	Log   *zap.Logger
}

func NewHandler(store documentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type contentInput struct {
	Content string `json:"content"`
}

func (h *Handler) read(w http.ResponseWriter, r *http.Request) (authz.Actor, primitive.ObjectID, string, bool) {
	actor := authz.ActorFromRequest(r)
	if actor.Anonymous() {
		respond.Error(w, h.Log, apperr.ErrUnauthorized)
		return actor, primitive.NilObjectID, "", false
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.Log, apperr.ErrNotFound)
		return actor, primitive.NilObjectID, "", false
	}
	var in contentInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, h.Log, err)
		return actor, primitive.NilObjectID, "", false
	}
	body := htmlsanitize.Sanitize(strings.TrimSpace(in.Content))
	if body == "" {
		respond.Error(w, h.Log, apperr.Invalid("content"))
		return actor, primitive.NilObjectID, "", false
	}
	return actor, id, body, true
}

// HandleReply handles POST /api/threads/{id}/replies. The thread must be
// approved and not locked.
func (h *Handler) HandleReply(w http.ResponseWriter, r *http.Request) {
	actor, id, body, ok := h.read(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "reply")
	defer cancel()

	reply := models.Reply{
		ID:        primitive.NewObjectID(),
		Author:    actor.ID,
		Content:   body,
		Likes:     []primitive.ObjectID{},
		CreatedAt: time.Now().UTC(),
	}
	filter := bson.M{"_id": id, "status": models.StatusApproved, "locked": bson.M{"$ne": true}}
	err := h.Store.Update(ctx, "threads", filter, bson.M{"$push": bson.M{"replies": reply}}, nil)
	if err != nil {
		respond.Error(w, h.Log, h.explain(ctx, "threads", id, err, func(doc bson.Raw) error {
			return apperr.ErrNotOpen
		}))
		return
	}
	respond.JSON(w, http.StatusCreated, reply)
}

// HandlePost handles POST /api/groups/{id}/posts. Only members of an
// approved group may post.
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	actor, id, body, ok := h.read(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "group post")
	defer cancel()

	post := models.GroupPost{
		ID:        primitive.NewObjectID(),
		Author:    actor.ID,
		Content:   body,
		Likes:     []primitive.ObjectID{},
		CreatedAt: time.Now().UTC(),
	}
	filter := bson.M{"_id": id, "status": models.StatusApproved, "members.user_id": actor.ID}
	err := h.Store.Update(ctx, "groups", filter, bson.M{"$push": bson.M{"posts": post}}, nil)
	if err != nil {
		respond.Error(w, h.Log, h.explain(ctx, "groups", id, err, func(doc bson.Raw) error {
			if status, _ := doc.Lookup("status").StringValueOK(); status != models.StatusApproved {
				return apperr.ErrNotOpen
			}
			return apperr.ErrForbidden
		}))
		return
	}
	respond.JSON(w, http.StatusCreated, post)
}

// explain turns a missed guarded push into NotFound or the cause reported
// by classify.
func (h *Handler) explain(ctx context.Context, coll string, id primitive.ObjectID, err error, classify func(bson.Raw) error) error {
	if !errors.Is(err, documentstore.ErrNoDocument) {
		return fmt.Errorf("append to %s: %w", coll, err)
	}
	var doc bson.Raw
	if gerr := h.Store.Get(ctx, coll, id, &doc); gerr != nil {
		if errors.Is(gerr, documentstore.ErrNoDocument) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("load %s: %w", coll, gerr)
	}
	return classify(doc)
}
