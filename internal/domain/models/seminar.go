// internal/domain/models/seminar.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seminar statuses. Seminars are created by admins and are not moderated.
const (
	SeminarUpcoming  = "upcoming"
	SeminarOngoing   = "ongoing"
	SeminarCompleted = "completed"
	SeminarCancelled = "cancelled"
)

type Seminar struct {
	ID                   primitive.ObjectID   `bson:"_id" json:"id"`
	Title                string               `bson:"title" json:"title"`
	Description          string               `bson:"description" json:"description"`
	Speaker              string               `bson:"speaker" json:"speaker"`
	Date                 time.Time            `bson:"date" json:"date"`
	Venue                string               `bson:"venue,omitempty" json:"venue,omitempty"`
	Status               string               `bson:"status" json:"status"`
	MaxAttendees         int                  `bson:"max_attendees,omitempty" json:"max_attendees,omitempty"`
	RegistrationDeadline *time.Time           `bson:"registration_deadline,omitempty" json:"registration_deadline,omitempty"`
	Attendees            []primitive.ObjectID `bson:"attendees,omitempty" json:"attendees"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
