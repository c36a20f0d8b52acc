// internal/app/system/notify/inbox.go
package notify

import (
	"context"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InboxStore is the part of the notification store the inbox writes to.
type InboxStore interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	CreateForAdmins(ctx context.Context, tmpl models.Notification) (int, error)
}

// Inbox writes notices into the in-app notification collection.
type Inbox struct {
	store InboxStore
}

func NewInbox(store InboxStore) *Inbox {
	return &Inbox{store: store}
}

func (i *Inbox) NotifyAdmins(ctx context.Context, n Notice) error {
	_, err := i.store.CreateForAdmins(ctx, n.model(primitive.NilObjectID))
	return err
}

func (i *Inbox) NotifyUser(ctx context.Context, user primitive.ObjectID, n Notice) error {
	_, err := i.store.Create(ctx, n.model(user))
	return err
}
