// internal/app/system/moderation/visibility.go
package moderation

import (
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson"
)

// Authorizer decides whether an actor holds a capability.
type Authorizer = authz.Checker

// IsVisible reports whether viewer may see e: it is in the public state,
// or viewer submitted it, or viewer is a moderator.
func IsVisible(az Authorizer, k *Kind, e Entity, viewer authz.Actor) bool {
	m := e.Meta()
	if m.Status == k.Public {
		return true
	}
	if viewer.Anonymous() {
		return false
	}
	return m.SubmittedBy == viewer.ID || az.HasCapability(viewer, authz.CapModerate)
}

// VisibleFilter is IsVisible as a query filter.
func VisibleFilter(az Authorizer, k *Kind, viewer authz.Actor) bson.M {
	switch {
	case viewer.Anonymous():
		return bson.M{"status": k.Public}
	case az.HasCapability(viewer, authz.CapModerate):
		return bson.M{}
	default:
		return bson.M{"$or": bson.A{
			bson.M{"status": k.Public},
			bson.M{"submitted_by": viewer.ID},
		}}
	}
}
