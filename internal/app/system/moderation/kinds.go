// internal/app/system/moderation/kinds.go
package moderation

import (
	"time"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entity is any document carrying moderation metadata.
type Entity interface {
	Meta() *models.Moderation
}

// Kind describes one moderated resource type: where it lives, its status
// vocabulary, and which fields callers may write.
type Kind struct {
	// Name is the singular tag used in notifications and audit records.
	Name string
	// Collection is the Mongo collection and the route slug.
	Collection string

	Pending  string
	Public   string
	Rejected string

	// Drafts enables SaveDraft and SubmitDraft.
	Drafts bool
	// Closable lists the terminal states Close may move a public entity to.
	Closable []string

	// OwnerEdits allows the submitter to edit. Admins can always edit.
	OwnerEdits bool
	// ResubmitFrom lists the statuses an owner edit sends back to pending.
	ResubmitFrom []string

	// Editable is the allowlist of fields Edit accepts.
	Editable []string
	// Required fields must be present and non-empty.
	Required []string
	// Rich fields hold user HTML and are sanitized on every write.
	Rich []string
	// Enums restrict a field to a fixed vocabulary when it is set.
	Enums map[string][]string
	// NonNegative numeric fields reject values below zero.
	NonNegative []string
	// Managed fields are owned by membership sets or other operations.
	// They are dropped from submissions and cannot be edited.
	Managed []string
	// LabelField names the field used as a human label in notices.
	LabelField string

	// OnSubmit adjusts the document before it is first stored.
	OnSubmit func(doc bson.M, author primitive.ObjectID, now time.Time)

	New     func() Entity
	NewList func() any
}

// Statuses lists every status an entity of the kind can hold.
func (k *Kind) Statuses() []string {
	var out []string
	if k.Drafts {
		out = append(out, models.StatusDraft)
	}
	out = append(out, k.Pending, k.Public, k.Rejected)
	return append(out, k.Closable...)
}

// decidable are the statuses an admin decision may start from.
func (k *Kind) decidable() []string {
	return []string{k.Pending, k.Public, k.Rejected}
}

var (
	Job = &Kind{
		Name: "job", Collection: "jobs",
		Pending: models.StatusPending, Public: models.StatusApproved, Rejected: models.StatusRejected,
		OwnerEdits:   true,
		ResubmitFrom: []string{models.StatusApproved, models.StatusRejected},
		Editable: []string{"title", "company", "location", "type", "description", "requirements",
			"salary", "application_url", "contact_email", "expires_at"},
		Required:   []string{"title", "company", "location", "type", "description"},
		Rich:       []string{"description"},
		Enums:      map[string][]string{"type": models.JobTypes},
		Managed:    []string{"saved_by"},
		LabelField: "title",
		New:        func() Entity { return &models.Job{} },
		NewList:    func() any { return &[]models.Job{} },
	}

	Blog = &Kind{
		Name: "blog", Collection: "blogs",
		Pending: models.StatusPending, Public: models.StatusPublished, Rejected: models.StatusRejected,
		Drafts:       true,
		OwnerEdits:   true,
		ResubmitFrom: []string{models.StatusPublished, models.StatusRejected},
		Editable:     []string{"title", "content", "excerpt", "tags", "cover_image"},
		Required:     []string{"title", "content"},
		Rich:         []string{"content"},
		Managed:      []string{"likes"},
		LabelField:   "title",
		New:          func() Entity { return &models.Blog{} },
		NewList:      func() any { return &[]models.Blog{} },
	}

	Event = &Kind{
		Name: "event", Collection: "events",
		Pending: models.StatusPending, Public: models.StatusApproved, Rejected: models.StatusRejected,
		Closable:     []string{models.StatusCancelled, models.StatusCompleted},
		OwnerEdits:   true,
		ResubmitFrom: []string{models.StatusApproved},
		Editable: []string{"title", "description", "event_type", "start_date", "end_date", "venue",
			"image_url", "max_attendees", "registration_deadline"},
		Required:    []string{"title", "description", "start_date", "venue"},
		Rich:        []string{"description"},
		Enums:       map[string][]string{"event_type": models.EventTypes},
		NonNegative: []string{"max_attendees"},
		Managed:     []string{"registered_users"},
		LabelField:  "title",
		New:         func() Entity { return &models.Event{} },
		NewList:     func() any { return &[]models.Event{} },
	}

	Gallery = &Kind{
		Name: "gallery item", Collection: "gallery",
		Pending: models.StatusPending, Public: models.StatusApproved, Rejected: models.StatusRejected,
		Editable:   []string{"title", "description", "image_url", "category"},
		Required:   []string{"title", "image_url"},
		Managed:    []string{"likes"},
		LabelField: "title",
		New:        func() Entity { return &models.GalleryItem{} },
		NewList:    func() any { return &[]models.GalleryItem{} },
	}

	Thread = &Kind{
		Name: "thread", Collection: "threads",
		Pending: models.StatusPending, Public: models.StatusApproved, Rejected: models.StatusRejected,
		Editable:   []string{"title", "content", "category", "tags", "pinned", "locked"},
		Required:   []string{"title", "content"},
		Rich:       []string{"content"},
		Managed:    []string{"replies"},
		LabelField: "title",
		OnSubmit: func(doc bson.M, _ primitive.ObjectID, _ time.Time) {
			doc["pinned"] = false
			doc["locked"] = false
		},
		New:        func() Entity { return &models.Thread{} },
		NewList:    func() any { return &[]models.Thread{} },
	}

	Group = &Kind{
		Name: "group", Collection: "groups",
		Pending: models.StatusPending, Public: models.StatusApproved, Rejected: models.StatusRejected,
		OwnerEdits: true,
		Editable:   []string{"name", "description", "category", "is_private"},
		Required:   []string{"name", "description"},
		Rich:       []string{"description"},
		Managed:    []string{"members", "posts"},
		LabelField: "name",
		OnSubmit: func(doc bson.M, author primitive.ObjectID, now time.Time) {
			doc["members"] = bson.A{models.GroupMember{UserID: author, Role: models.GroupRoleAdmin, JoinedAt: now}}
			doc["posts"] = bson.A{}
		},
		New:     func() Entity { return &models.Group{} },
		NewList: func() any { return &[]models.Group{} },
	}

	Mentor = &Kind{
		Name: "mentor profile", Collection: "mentors",
		Pending: models.StatusPending, Public: models.StatusApproved, Rejected: models.StatusRejected,
		OwnerEdits:   true,
		ResubmitFrom: []string{models.StatusApproved, models.StatusRejected},
		Editable:     []string{"expertise", "bio", "years_of_experience", "availability", "linkedin"},
		Required:     []string{"expertise", "bio"},
		Rich:         []string{"bio"},
		Managed:      []string{"slots", "total_sessions"},
		LabelField:   "bio",
		New:          func() Entity { return &models.Mentor{} },
		NewList:      func() any { return &[]models.Mentor{} },
	}

	Tool = &Kind{
		Name: "tool", Collection: "tools",
		Pending: models.StatusPending, Public: models.StatusApproved, Rejected: models.StatusRejected,
		Editable:   []string{"name", "description", "url", "category", "pricing"},
		Required:   []string{"name", "description", "url"},
		LabelField: "name",
		New:        func() Entity { return &models.Tool{} },
		NewList:    func() any { return &[]models.Tool{} },
	}

	Resource = &Kind{
		Name: "resource", Collection: "resources",
		Pending: models.StatusPending, Public: models.StatusApproved, Rejected: models.StatusRejected,
		Editable:   []string{"title", "description", "url", "category", "type"},
		Required:   []string{"title", "url"},
		LabelField: "title",
		New:        func() Entity { return &models.Resource{} },
		NewList:    func() any { return &[]models.Resource{} },
	}
)

// Kinds lists every moderated kind.
var Kinds = []*Kind{Job, Blog, Event, Gallery, Thread, Group, Mentor, Tool, Resource}

// Lookup returns the kind whose collection matches slug.
func Lookup(slug string) (*Kind, bool) {
	for _, k := range Kinds {
		if k.Collection == slug {
			return k, true
		}
	}
	return nil, false
}
