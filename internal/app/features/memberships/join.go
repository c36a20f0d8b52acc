// internal/app/features/memberships/join.go
package memberships

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/store/audit"
	"github.com/dalemusser/guildhub/internal/app/system/activity"
	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/membership"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type joinResponse struct {
	Member bool `json:"member"`
	Count  int  `json:"count"`
}

// join returns a handler that adds the caller to s.
func (h *Handler) join(s *membership.Set) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mutate(w, r, s, true)
	}
}

// leave returns a handler that removes the caller from s.
func (h *Handler) leave(s *membership.Set) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mutate(w, r, s, false)
	}
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, s *membership.Set, add bool) {
	actor := authz.ActorFromRequest(r)
	if actor.Anonymous() {
		respond.Error(w, h.Log, apperr.ErrUnauthorized)
		return
	}
	t, err := setTarget(r, s, "")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, s.Name)
	defer cancel()

	eventType := audit.EventLeft
	if add {
		eventType = audit.EventJoined
		err = h.Mutator.Add(ctx, s, t, actor.ID, nil)
	} else {
		err = h.Mutator.Remove(ctx, s, t, actor.ID, nil)
	}
	if s == membership.EventRegistrations && (err == nil || errors.Is(err, apperr.ErrAlreadyMember)) {
		h.syncRegistration(ctx, t, actor.ID)
	}
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	if add {
		h.recordJoin(ctx, s, t.ID, actor.ID)
	}
	h.Audit.Membership(ctx, r, actor, eventType, s.Name, t.ID)

	n, err := h.Mutator.Count(ctx, s, t)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, joinResponse{Member: add, Count: n})
}

// syncRegistration brings the registration ledger in line with the event's
// registered_users set, which is authoritative. The status written is read
// back from the set rather than taken from the request, so a ledger write
// that lost a race with another request is corrected by the next one.
// Ledger failures are logged.
func (h *Handler) syncRegistration(ctx context.Context, t membership.Target, user primitive.ObjectID) {
	if h.Registrations == nil {
		return
	}
	registered, err := h.Mutator.Contains(ctx, membership.EventRegistrations, t, user)
	if err == nil {
		if registered {
			err = h.Registrations.Confirm(ctx, t.ID, user)
		} else {
			err = h.Registrations.Cancel(ctx, t.ID, user)
		}
	}
	if err != nil {
		h.Log.Warn("registration ledger update failed",
			zap.String("event_id", t.ID.Hex()),
			zap.String("user_id", user.Hex()),
			zap.Error(err))
	}
}

type joinActivity struct {
	typ, title, model string
}

var joinActivities = map[*membership.Set]joinActivity{
	membership.EventRegistrations: {models.ActivityEventRegistration, "Registered for an event", "event"},
	membership.SeminarAttendees:   {models.ActivitySeminarAttendance, "Signed up for a seminar", "seminar"},
	membership.GroupMembers:       {models.ActivityGroupJoin, "Joined a group", "group"},
	membership.SavedJobs:          {models.ActivityJobSaved, "Saved a job", "job"},
}

func (h *Handler) recordJoin(ctx context.Context, s *membership.Set, id, user primitive.ObjectID) {
	a, ok := joinActivities[s]
	if !ok {
		return
	}
	h.Activity.Record(ctx, user, activity.Entry{
		Type:         a.typ,
		Title:        a.title,
		RelatedID:    id,
		RelatedModel: a.model,
	})
}
