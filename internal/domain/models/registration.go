// internal/domain/models/registration.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RegistrationConfirmed = "confirmed"
	RegistrationCancelled = "cancelled"
)

// Registration is the ledger record of one user's registration for one
// event. The event's registered_users set is authoritative; this record
// keeps history (when a user registered or cancelled).
type Registration struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	EventID      primitive.ObjectID `bson:"event_id" json:"event_id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	Status       string             `bson:"status" json:"status"`
	RegisteredAt time.Time          `bson:"registered_at" json:"registered_at"`
	CancelledAt  *time.Time         `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
