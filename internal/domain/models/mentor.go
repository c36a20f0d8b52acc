// internal/domain/models/mentor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mentor is a member's mentoring profile. A user has at most one.
//
// Slots and TotalSessions are written by the slot and booking operations
// only; profile edits never touch them.
type Mentor struct {
	Moderation `bson:",inline"`

	Expertise         []string     `bson:"expertise" json:"expertise"`
	Bio               string       `bson:"bio" json:"bio"`
	YearsOfExperience int          `bson:"years_of_experience" json:"years_of_experience"`
	Availability      string       `bson:"availability,omitempty" json:"availability,omitempty"`
	LinkedIn          string       `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Slots             []MentorSlot `bson:"slots,omitempty" json:"slots"`
	TotalSessions     int          `bson:"total_sessions,omitempty" json:"total_sessions"`
}

// MentorSlot is one bookable session window. A booked slot stays booked.
type MentorSlot struct {
	ID       primitive.ObjectID  `bson:"_id" json:"id"`
	Start    time.Time           `bson:"start" json:"start"`
	End      time.Time           `bson:"end" json:"end"`
	IsBooked bool                `bson:"is_booked" json:"is_booked"`
	BookedBy *primitive.ObjectID `bson:"booked_by,omitempty" json:"booked_by,omitempty"`
	BookedAt *time.Time          `bson:"booked_at,omitempty" json:"booked_at,omitempty"`
}
