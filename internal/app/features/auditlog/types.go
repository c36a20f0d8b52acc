// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listItem is one audit event as returned by the API.
type listItem struct {
	ID         primitive.ObjectID  `json:"id"`
	At         time.Time           `json:"at"`
	Category   string              `json:"category"`
	EventType  string              `json:"event_type"`
	Kind       string              `json:"kind"`
	ResourceID primitive.ObjectID  `json:"resource_id"`
	ActorID    *primitive.ObjectID `json:"actor_id,omitempty"`
	ActorName  string              `json:"actor_name,omitempty"` // Resolved from ActorID
	IP         string              `json:"ip,omitempty"`
	Details    map[string]string   `json:"details,omitempty"`
}
