// internal/app/features/memberships/handler.go
package memberships

import (
	"net/http"

	registrationstore "github.com/dalemusser/guildhub/internal/app/store/registrations"
	"github.com/dalemusser/guildhub/internal/app/system/activity"
	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/auditlog"
	"github.com/dalemusser/guildhub/internal/app/system/membership"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves joins, leaves, saves, and likes for every membership set.
type Handler struct {
	Mutator       *membership.Mutator
	Registrations *registrationstore.Store
	Activity      *activity.Recorder
	Audit         *auditlog.Logger
	Log           *zap.Logger
}

func NewHandler(m *membership.Mutator, regs *registrationstore.Store, rec *activity.Recorder, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Mutator:       m,
		Registrations: regs,
		Activity:      rec,
		Audit:         audit,
		Log:           logger,
	}
}

func objectID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apperr.ErrNotFound
	}
	return id, nil
}

// setTarget reads the parent id and, for nested sets, the element id.
func setTarget(r *http.Request, s *membership.Set, elemParam string) (membership.Target, error) {
	id, err := objectID(r, "id")
	if err != nil {
		return membership.Target{}, err
	}
	t := membership.Target{ID: id}
	if s.Nested != "" {
		if t.Elem, err = objectID(r, elemParam); err != nil {
			return membership.Target{}, err
		}
	}
	return t, nil
}
