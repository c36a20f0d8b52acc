// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"slices"
	"strings"

	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the caller as the core components see it. The zero Actor is
// an anonymous viewer.
type Actor struct {
	ID   primitive.ObjectID
	Name string
	Role string
}

// Anonymous reports whether the actor carries no identity.
func (a Actor) Anonymous() bool { return a.ID.IsZero() }

// Capability names a permission the Authorizer can grant.
type Capability string

const (
	// CapModerate allows approving, rejecting, and closing submissions
	// and editing any submission.
	CapModerate Capability = "moderate"
	// CapManageSeminars allows creating and updating seminars.
	CapManageSeminars Capability = "manage_seminars"
)

// DefaultGrants is the role table used by the zero Roles.
var DefaultGrants = map[string][]Capability{
	"superadmin": {CapModerate, CapManageSeminars},
	"admin":      {CapModerate, CapManageSeminars},
	"member":     {},
}

// Roles grants capabilities from a role table. A nil Grants uses
// DefaultGrants. Roles are matched case-insensitively.
type Roles struct {
	Grants map[string][]Capability
}

func (r Roles) HasCapability(a Actor, c Capability) bool {
	if a.Anonymous() {
		return false
	}
	grants := r.Grants
	if grants == nil {
		grants = DefaultGrants
	}
	return slices.Contains(grants[strings.ToLower(a.Role)], c)
}

// Checker reports whether an actor holds a capability. Roles implements it.
type Checker interface {
	HasCapability(a Actor, c Capability) bool
}

// RequireCapability lets the request through only when the caller holds c.
// Missing identity is a 401; a missing capability is a 403.
func RequireCapability(az Checker, c Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a := ActorFromRequest(r)
			if a.Anonymous() {
				respond.Error(w, nil, apperr.ErrUnauthorized)
				return
			}
			if !az.HasCapability(a, c) {
				respond.Error(w, nil, apperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// ActorFromRequest returns the caller, or the anonymous Actor.
func ActorFromRequest(r *http.Request) Actor {
	role, name, id, ok := UserCtx(r)
	if !ok {
		return Actor{}
	}
	return Actor{ID: id, Name: name, Role: role}
}
