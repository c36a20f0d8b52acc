package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Calling it again on the returned request keeps earlier parameters.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert test %s: %v", coll, err)
	}
}

// CreateUser creates an active test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "users", user)
	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin)
}

// CreateMember creates a test member user.
func (f *Fixtures) CreateMember(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleMember)
}

func moderation(owner primitive.ObjectID, status string) models.Moderation {
	now := time.Now().UTC()
	return models.Moderation{
		ID:          primitive.NewObjectID(),
		Status:      status,
		SubmittedBy: owner,
		IsApproved:  status == models.StatusApproved || status == models.StatusPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// EventOptions tunes CreateEvent. Zero values mean unlimited capacity and
// no registration deadline.
type EventOptions struct {
	Status       string
	MaxAttendees int
	Deadline     *time.Time
}

// CreateEvent creates an event owned by owner. Status defaults to approved.
func (f *Fixtures) CreateEvent(ctx context.Context, owner primitive.ObjectID, opts EventOptions) models.Event {
	f.t.Helper()

	if opts.Status == "" {
		opts.Status = models.StatusApproved
	}
	ev := models.Event{
		Moderation:           moderation(owner, opts.Status),
		Title:                "Annual Meetup",
		Description:          "Members meet to share work.",
		StartDate:            time.Now().UTC().Add(30 * 24 * time.Hour),
		Venue:                "Main Hall",
		MaxAttendees:         opts.MaxAttendees,
		RegistrationDeadline: opts.Deadline,
	}
	f.insert(ctx, "events", ev)
	return ev
}

// CreateSeminar creates an admin-owned seminar with the given status.
func (f *Fixtures) CreateSeminar(ctx context.Context, createdBy primitive.ObjectID, status string, maxAttendees int) models.Seminar {
	f.t.Helper()

	now := time.Now().UTC()
	s := models.Seminar{
		ID:           primitive.NewObjectID(),
		Title:        "Intro Seminar",
		Description:  "An introduction for new members.",
		Speaker:      "Guest Speaker",
		Date:         now.Add(7 * 24 * time.Hour),
		Status:       status,
		MaxAttendees: maxAttendees,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "seminars", s)
	return s
}

// CreateGroup creates a group whose creator is its admin member.
func (f *Fixtures) CreateGroup(ctx context.Context, creator primitive.ObjectID, status string) models.Group {
	f.t.Helper()

	g := models.Group{
		Moderation:  moderation(creator, status),
		Name:        "Test Group",
		Description: "A group for tests.",
		Members: []models.GroupMember{
			{UserID: creator, Role: models.GroupRoleAdmin, JoinedAt: time.Now().UTC()},
		},
		Posts: []models.GroupPost{{
			ID:        primitive.NewObjectID(),
			Author:    creator,
			Content:   "Welcome",
			Likes:     []primitive.ObjectID{},
			CreatedAt: time.Now().UTC(),
		}},
	}
	f.insert(ctx, "groups", g)
	return g
}

// CreateBlog creates a blog post with the given status.
func (f *Fixtures) CreateBlog(ctx context.Context, owner primitive.ObjectID, status string) models.Blog {
	f.t.Helper()

	b := models.Blog{
		Moderation: moderation(owner, status),
		Title:      "First Post",
		Content:    "<p>Hello</p>",
	}
	f.insert(ctx, "blogs", b)
	return b
}

// CreateThread creates a thread with a single reply.
func (f *Fixtures) CreateThread(ctx context.Context, owner primitive.ObjectID, status string) models.Thread {
	f.t.Helper()

	th := models.Thread{
		Moderation: moderation(owner, status),
		Title:      "Question",
		Content:    "How do I join?",
		Replies: []models.Reply{{
			ID:        primitive.NewObjectID(),
			Author:    owner,
			Content:   "Use the join button.",
			Likes:     []primitive.ObjectID{},
			CreatedAt: time.Now().UTC(),
		}},
	}
	f.insert(ctx, "threads", th)
	return th
}

// CreateJob creates a job posting with the given status.
func (f *Fixtures) CreateJob(ctx context.Context, owner primitive.ObjectID, status string) models.Job {
	f.t.Helper()

	j := models.Job{
		Moderation:  moderation(owner, status),
		Title:       "Backend Engineer",
		Company:     "Acme",
		Location:    "Remote",
		Type:        "full-time",
		Description: "Build services.",
	}
	f.insert(ctx, "jobs", j)
	return j
}

// CreateMentor creates a mentor profile with n open slots starting
// tomorrow, one hour apart.
func (f *Fixtures) CreateMentor(ctx context.Context, owner primitive.ObjectID, status string, n int) models.Mentor {
	f.t.Helper()

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	m := models.Mentor{
		Moderation:        moderation(owner, status),
		Expertise:         []string{"go"},
		Bio:               "Happy to help.",
		YearsOfExperience: 5,
	}
	for i := 0; i < n; i++ {
		s := start.Add(time.Duration(i) * time.Hour)
		m.Slots = append(m.Slots, models.MentorSlot{ID: primitive.NewObjectID(), Start: s, End: s.Add(time.Hour)})
	}
	f.insert(ctx, "mentors", m)
	return m
}
