// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ApplicationPending  = "pending"
	ApplicationReviewed = "reviewed"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

var ApplicationStatuses = []string{ApplicationPending, ApplicationReviewed, ApplicationAccepted, ApplicationRejected}

// JobApplication is a member's application to a job posting. A member
// applies to a job at most once; the unique index on {job_id, user_id}
// enforces it.
type JobApplication struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	JobID       primitive.ObjectID `bson:"job_id" json:"job_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	CoverLetter string             `bson:"cover_letter,omitempty" json:"cover_letter,omitempty"`
	ResumeURL   string             `bson:"resume_url,omitempty" json:"resume_url,omitempty"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
