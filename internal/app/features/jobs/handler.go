// internal/app/features/jobs/handler.go
package jobs

import (
	"net/http"

	applicationstore "github.com/dalemusser/guildhub/internal/app/store/applications"
	"github.com/dalemusser/guildhub/internal/app/system/activity"
	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/moderation"
	"github.com/dalemusser/guildhub/internal/app/system/notify"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves job applications and the caller's saved jobs. Saving a
// job is a membership operation and lives with the other sets.
type Handler struct {
	Engine       *moderation.Engine
	Applications *applicationstore.Store
	Authz        authz.Checker
	Notifier     notify.Notifier
	Activity     *activity.Recorder
	Log          *zap.Logger
}

func NewHandler(engine *moderation.Engine, apps *applicationstore.Store, az authz.Checker, n notify.Notifier, rec *activity.Recorder, logger *zap.Logger) *Handler {
	return &Handler{
		Engine:       engine,
		Applications: apps,
		Authz:        az,
		Notifier:     notify.BestEffort{Next: n, Log: logger},
		Activity:     rec,
		Log:          logger,
	}
}

func jobID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apperr.ErrNotFound
	}
	return id, nil
}
