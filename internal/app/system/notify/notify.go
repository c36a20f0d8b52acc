// internal/app/system/notify/notify.go
package notify

import (
	"context"
	"errors"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Notice is the content of one notification, independent of recipient.
type Notice struct {
	Type         string
	Title        string
	Message      string
	RelatedID    primitive.ObjectID
	RelatedModel string
	Priority     string
}

// Notifier delivers notices. Callers treat delivery as best-effort.
type Notifier interface {
	NotifyAdmins(ctx context.Context, n Notice) error
	NotifyUser(ctx context.Context, user primitive.ObjectID, n Notice) error
}

// Nop discards every notice.
type Nop struct{}

func (Nop) NotifyAdmins(context.Context, Notice) error                    { return nil }
func (Nop) NotifyUser(context.Context, primitive.ObjectID, Notice) error { return nil }

// Fanout delivers to every notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) NotifyAdmins(ctx context.Context, n Notice) error {
	var errs []error
	for _, x := range f {
		if err := x.NotifyAdmins(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) NotifyUser(ctx context.Context, user primitive.ObjectID, n Notice) error {
	var errs []error
	for _, x := range f {
		if err := x.NotifyUser(ctx, user, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BestEffort wraps a Notifier so failures are logged at Warn and never
// returned.
type BestEffort struct {
	Next Notifier
	Log  *zap.Logger
}

func (b BestEffort) NotifyAdmins(ctx context.Context, n Notice) error {
	if err := b.Next.NotifyAdmins(ctx, n); err != nil {
		b.Log.Warn("admin notification failed",
			zap.String("type", n.Type),
			zap.String("related_id", n.RelatedID.Hex()),
			zap.Error(err))
	}
	return nil
}

func (b BestEffort) NotifyUser(ctx context.Context, user primitive.ObjectID, n Notice) error {
	if err := b.Next.NotifyUser(ctx, user, n); err != nil {
		b.Log.Warn("user notification failed",
			zap.String("type", n.Type),
			zap.String("recipient", user.Hex()),
			zap.String("related_id", n.RelatedID.Hex()),
			zap.Error(err))
	}
	return nil
}

func (n Notice) model(recipient primitive.ObjectID) models.Notification {
	out := models.Notification{
		Recipient:    recipient,
		Type:         n.Type,
		Title:        n.Title,
		Message:      n.Message,
		RelatedModel: n.RelatedModel,
		Priority:     n.Priority,
	}
	if !n.RelatedID.IsZero() {
		id := n.RelatedID
		out.RelatedID = &id
	}
	return out
}
