// internal/app/features/mentoring/handler.go
package mentoring

import (
	"net/http"
	"time"

	mentorstore "github.com/dalemusser/guildhub/internal/app/store/mentors"
	"github.com/dalemusser/guildhub/internal/app/system/activity"
	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/notify"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves mentor session slots and bookings.
type Handler struct {
	Mentors  *mentorstore.Store
	Notifier notify.Notifier
	Activity *activity.Recorder
	Log      *zap.Logger
}

func NewHandler(mentors *mentorstore.Store, n notify.Notifier, rec *activity.Recorder, logger *zap.Logger) *Handler {
	return &Handler{
		Mentors:  mentors,
		Notifier: notify.BestEffort{Next: n, Log: logger},
		Activity: rec,
		Log:      logger,
	}
}

func idParam(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apperr.ErrNotFound
	}
	return id, nil
}

type slotRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// HandleAddSlot handles POST /api/mentors/{id}/slots. Only the profile's
// owner may add slots.
func (h *Handler) HandleAddSlot(w http.ResponseWriter, r *http.Request) {
	actor := authz.ActorFromRequest(r)
	if actor.Anonymous() {
		respond.Error(w, h.Log, apperr.ErrUnauthorized)
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	var req slotRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "add mentor slot")
	defer cancel()

	slot, err := h.Mentors.AddSlot(ctx, id, actor.ID, req.Start, req.End)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, slot)
}

type bookResponse struct {
	Slot          models.MentorSlot `json:"slot"`
	TotalSessions int               `json:"total_sessions"`
}

// HandleBook handles POST /api/mentors/{id}/slots/{slotID}/book.
func (h *Handler) HandleBook(w http.ResponseWriter, r *http.Request) {
	actor := authz.ActorFromRequest(r)
	if actor.Anonymous() {
		respond.Error(w, h.Log, apperr.ErrUnauthorized)
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	slotID, err := idParam(r, "slotID")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "book mentor slot")
	defer cancel()

	m, err := h.Mentors.Book(ctx, id, slotID, actor.ID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var slot models.MentorSlot
	for _, s := range m.Slots {
		if s.ID == slotID {
			slot = s
			break
		}
	}

	when := slot.Start.Format(time.RFC1123)
	h.Activity.Record(ctx, actor.ID, activity.Entry{
		Type:         models.ActivitySessionBooked,
		Title:        "Booked a mentoring session",
		Description:  when,
		RelatedID:    id,
		RelatedModel: "mentor",
	})
	_ = h.Notifier.NotifyUser(ctx, m.SubmittedBy, notify.Notice{
		Type:         "session_booked",
		Title:        "Session booked",
		Message:      "A member booked your session on " + when + ".",
		RelatedID:    id,
		RelatedModel: "mentor",
	})
	respond.JSON(w, http.StatusOK, bookResponse{Slot: slot, TotalSessions: m.TotalSessions})
}
