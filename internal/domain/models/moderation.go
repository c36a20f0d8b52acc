// internal/domain/models/moderation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status vocabulary shared by the moderated kinds. Each kind maps its
// pending/public/rejected roles onto a subset of these values.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Moderation is the workflow metadata every submittable document carries.
// Variants embed it inline so the fields live at the top level of the
// stored document.
//
// ModeratedBy and ModeratedAt stay nil until the first decision and are
// always written together.
type Moderation struct {
	ID              primitive.ObjectID  `bson:"_id" json:"id"`
	Status          string              `bson:"status" json:"status"`
	SubmittedBy     primitive.ObjectID  `bson:"submitted_by" json:"submitted_by"`
	ModeratedBy     *primitive.ObjectID `bson:"moderated_by,omitempty" json:"moderated_by,omitempty"`
	ModeratedAt     *time.Time          `bson:"moderated_at,omitempty" json:"moderated_at,omitempty"`
	RejectionReason string              `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	IsApproved      bool                `bson:"is_approved" json:"is_approved"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Meta exposes the embedded metadata through the moderation.Entity interface.
func (m *Moderation) Meta() *Moderation { return m }
