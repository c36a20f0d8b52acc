// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity types recorded in a member's feed.
const (
	ActivityEventRegistration = "event_registration"
	ActivitySeminarAttendance = "seminar_attendance"
	ActivityGroupJoin         = "group_join"
	ActivityJobSaved          = "job_saved"
	ActivityJobApplication    = "job_application"
	ActivitySessionBooked     = "session_booked"
)

var ActivityTypes = []string{
	ActivityEventRegistration,
	ActivitySeminarAttendance,
	ActivityGroupJoin,
	ActivityJobSaved,
	ActivityJobApplication,
	ActivitySessionBooked,
}

// Activity is one entry of a member's own activity feed. Entries are
// written after the action succeeds and are never updated.
type Activity struct {
	ID           primitive.ObjectID  `bson:"_id" json:"id"`
	UserID       primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Type         string              `bson:"type" json:"type"`
	Title        string              `bson:"title" json:"title"`
	Description  string              `bson:"description,omitempty" json:"description,omitempty"`
	RelatedID    *primitive.ObjectID `bson:"related_id,omitempty" json:"related_id,omitempty"`
	RelatedModel string              `bson:"related_model,omitempty" json:"related_model,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
}
