// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Notification is one inbox entry for one recipient.
type Notification struct {
	ID           primitive.ObjectID  `bson:"_id" json:"id"`
	Recipient    primitive.ObjectID  `bson:"recipient" json:"recipient"`
	Type         string              `bson:"type" json:"type"` // e.g. "job_submitted", "blog_approved"
	Title        string              `bson:"title" json:"title"`
	Message      string              `bson:"message" json:"message"`
	RelatedID    *primitive.ObjectID `bson:"related_id,omitempty" json:"related_id,omitempty"`
	RelatedModel string              `bson:"related_model,omitempty" json:"related_model,omitempty"`
	Priority     string              `bson:"priority" json:"priority"`
	Read         bool                `bson:"read" json:"read"`
	ReadAt       *time.Time          `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
}
