// internal/domain/models/job.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job types accepted on submission.
var JobTypes = []string{"full-time", "part-time", "contract", "internship", "remote"}

// Job is a job posting submitted by a member.
type Job struct {
	Moderation `bson:",inline"`

	Title          string     `bson:"title" json:"title"`
	Company        string     `bson:"company" json:"company"`
	Location       string     `bson:"location" json:"location"`
	Type           string     `bson:"type" json:"type"`
	Description    string     `bson:"description" json:"description"`
	Requirements   []string   `bson:"requirements,omitempty" json:"requirements,omitempty"`
	Salary         string     `bson:"salary,omitempty" json:"salary,omitempty"`
	ApplicationURL string     `bson:"application_url,omitempty" json:"application_url,omitempty"`
	ContactEmail   string     `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	ExpiresAt      *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`

	// SavedBy is the set of members who bookmarked the job. It is private
	// to each member and never serialized.
	SavedBy []primitive.ObjectID `bson:"saved_by,omitempty" json:"-"`
}
