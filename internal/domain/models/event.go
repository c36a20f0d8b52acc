// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var EventTypes = []string{"conference", "workshop", "meetup", "webinar", "other"}

// Event is a member-submitted event that other members register for.
// MaxAttendees of zero means unlimited.
type Event struct {
	Moderation `bson:",inline"`

	Title                string               `bson:"title" json:"title"`
	Description          string               `bson:"description" json:"description"`
	EventType            string               `bson:"event_type,omitempty" json:"event_type,omitempty"`
	StartDate            time.Time            `bson:"start_date" json:"start_date"`
	EndDate              *time.Time           `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Venue                string               `bson:"venue" json:"venue"`
	ImageURL             string               `bson:"image_url,omitempty" json:"image_url,omitempty"`
	MaxAttendees         int                  `bson:"max_attendees,omitempty" json:"max_attendees,omitempty"`
	RegistrationDeadline *time.Time           `bson:"registration_deadline,omitempty" json:"registration_deadline,omitempty"`
	RegisteredUsers      []primitive.ObjectID `bson:"registered_users,omitempty" json:"registered_users"`
}
