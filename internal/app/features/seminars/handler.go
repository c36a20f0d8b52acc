// internal/app/features/seminars/handler.go
package seminars

import (
	"net/http"

	seminarstore "github.com/dalemusser/guildhub/internal/app/store/seminars"
	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves admin-run seminars. Seminars are not moderated.
type Handler struct {
	Store *seminarstore.Store
	Log   *zap.Logger
}

func NewHandler(store *seminarstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type statusInput struct {
	Status string `json:"status"`
}

func seminarID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.ErrNotFound
	}
	return id, nil
}

// ServeList handles GET /api/seminars.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list seminars")
	defer cancel()

	items, err := h.Store.List(ctx, r.URL.Query().Get("status"))
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if items == nil {
		items = []models.Seminar{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{"items": items})
}

// ServeView handles GET /api/seminars/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := seminarID(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "view seminar")
	defer cancel()

	sem, err := h.Store.Get(ctx, id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, sem)
}

// HandleCreate handles POST /api/seminars (admin).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in models.Seminar
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	in.CreatedBy = authz.ActorFromRequest(r).ID

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create seminar")
	defer cancel()

	sem, err := h.Store.Create(ctx, in)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, sem)
}

// HandleStatus handles POST /api/seminars/{id}/status (admin).
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := seminarID(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	var in statusInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "seminar status")
	defer cancel()

	sem, err := h.Store.SetStatus(ctx, id, in.Status)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, sem)
}
