// internal/app/features/content/handler.go
package content

import (
	"net/http"

	applicationstore "github.com/dalemusser/guildhub/internal/app/store/applications"
	registrationstore "github.com/dalemusser/guildhub/internal/app/store/registrations"
	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/auditlog"
	"github.com/dalemusser/guildhub/internal/app/system/moderation"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the moderated content API for every kind. The kind is
// taken from the {kind} route parameter.
type Handler struct {
	Engine        *moderation.Engine
	Registrations *registrationstore.Store
	Applications  *applicationstore.Store
	Audit         *auditlog.Logger
	Log           *zap.Logger
}

func NewHandler(engine *moderation.Engine, regs *registrationstore.Store, apps *applicationstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Engine:        engine,
		Registrations: regs,
		Applications:  apps,
		Audit:         audit,
		Log:           logger,
	}
}

func kindParam(r *http.Request) (*moderation.Kind, error) {
	k, ok := moderation.Lookup(chi.URLParam(r, "kind"))
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return k, nil
}

func idParam(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apperr.ErrNotFound
	}
	return id, nil
}

// target resolves the kind and entity id of a request.
func target(r *http.Request) (*moderation.Kind, primitive.ObjectID, error) {
	k, err := kindParam(r)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	id, err := idParam(r, "id")
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	return k, id, nil
}
