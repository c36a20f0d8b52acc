// internal/app/system/membership/set.go
package membership

import (
	"time"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Set describes one deduplicated set of user ids owned by a document.
//
// A top-level set lives at Field on the parent. A nested set lives at
// Field inside the element of the Nested array whose _id is Target.Elem.
// Keyed sets store subdocuments and identify the user by Key.
type Set struct {
	Name       string
	Collection string
	Field      string
	Nested     string
	Key        string

	// Capacity and Deadline name optional parent fields. A missing or
	// non-positive capacity means unlimited; a missing deadline means none.
	// Both gate insertion only.
	Capacity string
	Deadline string

	// Open lists parent statuses that accept new members. Empty means any.
	Open []string

	// Creator names the parent field whose user can never be removed.
	Creator string

	// Element builds the stored value for keyed sets.
	Element func(user primitive.ObjectID, now time.Time) any
}

// Target addresses one set instance: the parent document and, for nested
// sets, the element that owns the set.
type Target struct {
	ID   primitive.ObjectID
	Elem primitive.ObjectID
}

// Sets used by the application.
var (
	EventRegistrations = &Set{
		Name:       "event registrations",
		Collection: "events",
		Field:      "registered_users",
		Capacity:   "max_attendees",
		Deadline:   "registration_deadline",
		Open:       []string{models.StatusApproved},
	}

	SeminarAttendees = &Set{
		Name:       "seminar attendees",
		Collection: "seminars",
		Field:      "attendees",
		Capacity:   "max_attendees",
		Deadline:   "registration_deadline",
		Open:       []string{models.SeminarUpcoming, models.SeminarOngoing},
	}

	GroupMembers = &Set{
		Name:       "group members",
		Collection: "groups",
		Field:      "members",
		Key:        "user_id",
		Open:       []string{models.StatusApproved},
		Creator:    "submitted_by",
		Element: func(user primitive.ObjectID, now time.Time) any {
			return models.GroupMember{UserID: user, Role: models.GroupRoleMember, JoinedAt: now}
		},
	}

	SavedJobs = &Set{
		Name:       "saved jobs",
		Collection: "jobs",
		Field:      "saved_by",
		Open:       []string{models.StatusApproved},
	}

	BlogLikes = &Set{
		Name:       "blog likes",
		Collection: "blogs",
		Field:      "likes",
		Open:       []string{models.StatusPublished},
	}

	GalleryLikes = &Set{
		Name:       "gallery likes",
		Collection: "gallery",
		Field:      "likes",
		Open:       []string{models.StatusApproved},
	}

	ReplyLikes = &Set{
		Name:       "reply likes",
		Collection: "threads",
		Nested:     "replies",
		Field:      "likes",
		Open:       []string{models.StatusApproved},
	}

	PostLikes = &Set{
		Name:       "post likes",
		Collection: "groups",
		Nested:     "posts",
		Field:      "likes",
		Open:       []string{models.StatusApproved},
	}
)

// path is the update path of the set, using the "el" array filter for
// nested sets.
func (s *Set) path() string {
	if s.Nested != "" {
		return s.Nested + ".$[el]." + s.Field
	}
	return s.Field
}

func (s *Set) arrayFilters(t Target) []any {
	if s.Nested == "" {
		return nil
	}
	return []any{bson.M{"el._id": t.Elem}}
}

// memberFilter matches the set instance when user is (present=true) or is
// not (present=false) a member.
func (s *Set) memberFilter(t Target, user primitive.ObjectID, present bool) bson.M {
	var v any = user
	if !present {
		v = bson.M{"$ne": user}
	}
	field := s.Field
	if s.Key != "" {
		field += "." + s.Key
	}
	if s.Nested != "" {
		return bson.M{s.Nested: bson.M{"$elemMatch": bson.M{"_id": t.Elem, field: v}}}
	}
	return bson.M{field: v}
}

func (s *Set) openFilter() bson.M {
	if len(s.Open) == 0 {
		return nil
	}
	return bson.M{"status": bson.M{"$in": s.Open}}
}

// addFilter encodes every insertion precondition so the database checks
// them in the same atomic step as the write.
func (s *Set) addFilter(t Target, user primitive.ObjectID, now time.Time) bson.M {
	and := bson.A{
		bson.M{"_id": t.ID},
		s.memberFilter(t, user, false),
	}
	if f := s.openFilter(); f != nil {
		and = append(and, f)
	}
	if s.Deadline != "" {
		and = append(and, bson.M{"$or": bson.A{
			bson.M{s.Deadline: nil},
			bson.M{s.Deadline: bson.M{"$gte": now}},
		}})
	}
	if s.Capacity != "" && s.Nested == "" {
		capRef := "$" + s.Capacity
		and = append(and, bson.M{"$expr": bson.M{"$or": bson.A{
			bson.M{"$lte": bson.A{bson.M{"$ifNull": bson.A{capRef, 0}}, 0}},
			bson.M{"$lt": bson.A{
				bson.M{"$size": bson.M{"$ifNull": bson.A{"$" + s.Field, bson.A{}}}},
				capRef,
			}},
		}}})
	}
	return bson.M{"$and": and}
}

func (s *Set) addUpdate(user primitive.ObjectID, now time.Time) bson.M {
	if s.Key != "" && s.Element != nil {
		return bson.M{"$push": bson.M{s.path(): s.Element(user, now)}}
	}
	return bson.M{"$addToSet": bson.M{s.path(): user}}
}

func (s *Set) removeFilter(t Target, user primitive.ObjectID) bson.M {
	f := bson.M{"_id": t.ID}
	if s.Nested != "" {
		f[s.Nested+"._id"] = t.Elem
	}
	if s.Creator != "" {
		f[s.Creator] = bson.M{"$ne": user}
	}
	return f
}

func (s *Set) removeUpdate(user primitive.ObjectID) bson.M {
	if s.Key != "" {
		return bson.M{"$pull": bson.M{s.path(): bson.M{s.Key: user}}}
	}
	return bson.M{"$pull": bson.M{s.path(): user}}
}
