// internal/app/system/activity/recorder.go
package activity

import (
	"context"

	activitystore "github.com/dalemusser/guildhub/internal/app/store/activity"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Writer persists activity entries. *activitystore.Store implements it.
type Writer interface {
	Create(ctx context.Context, a models.Activity) (models.Activity, error)
}

// Recorder writes feed entries after an action has succeeded. Failures
// are logged at Warn and never returned, so a feed outage cannot fail the
// action. A nil Recorder records nothing.
type Recorder struct {
	Store Writer
	Log   *zap.Logger
}

func NewRecorder(store *activitystore.Store, logger *zap.Logger) *Recorder {
	return &Recorder{Store: store, Log: logger}
}

// Entry describes what a member did. RelatedID may be zero.
type Entry struct {
	Type         string
	Title        string
	Description  string
	RelatedID    primitive.ObjectID
	RelatedModel string
}

// Record writes e for user.
func (r *Recorder) Record(ctx context.Context, user primitive.ObjectID, e Entry) {
	if r == nil || r.Store == nil {
		return
	}
	a := models.Activity{
		UserID:       user,
		Type:         e.Type,
		Title:        e.Title,
		Description:  e.Description,
		RelatedModel: e.RelatedModel,
	}
	if !e.RelatedID.IsZero() {
		id := e.RelatedID
		a.RelatedID = &id
	}
	if _, err := r.Store.Create(ctx, a); err != nil {
		r.Log.Warn("activity record failed",
			zap.String("type", e.Type),
			zap.String("user_id", user.Hex()),
			zap.String("related_id", e.RelatedID.Hex()),
			zap.Error(err))
	}
}
