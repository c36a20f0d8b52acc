package content_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/guildhub/internal/app/features/content"
	applicationstore "github.com/dalemusser/guildhub/internal/app/store/applications"
	"github.com/dalemusser/guildhub/internal/app/store/audit"
	documentstore "github.com/dalemusser/guildhub/internal/app/store/documents"
	registrationstore "github.com/dalemusser/guildhub/internal/app/store/registrations"
	"github.com/dalemusser/guildhub/internal/app/system/auditlog"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/moderation"
	"github.com/dalemusser/guildhub/internal/app/system/notify"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type testEnv struct {
	db      *mongo.Database
	handler *content.Handler
	router  http.Handler
	fx      *testutil.Fixtures
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	engine := moderation.New(documentstore.New(db), authz.Roles{}, notify.Nop{}, logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{Moderation: "db", Membership: "off"})
	h := content.NewHandler(engine, registrationstore.New(db), applicationstore.New(db), auditLog, logger)

	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) { content.Routes(api, h, sm) })

	return &testEnv{db: db, handler: h, router: r, fx: testutil.NewFixtures(t, db)}
}

func (e *testEnv) do(req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func jobBody() map[string]any {
	return map[string]any{
		"title":       "Platform Engineer",
		"company":     "Acme",
		"location":    "Berlin",
		"type":        "contract",
		"description": "Keep the lights on",
	}
}

func TestSubmitApproveFlow(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := e.fx.CreateMember(ctx, "Member", "member@example.com")
	admin := e.fx.CreateAdmin(ctx, "Admin", "admin@example.com")

	rec := e.do(testutil.WithUser(testutil.NewJSONRequest("POST", "/api/jobs", jobBody()), member))
	rec.AssertStatus(t, http.StatusCreated)
	var job models.Job
	rec.DecodeJSON(t, &job)
	if job.Status != models.StatusPending {
		t.Fatalf("status: %q", job.Status)
	}

	// Hidden from anonymous viewers until approved.
	rec = e.do(testutil.NewJSONRequest("GET", "/api/jobs/"+job.ID.Hex(), nil))
	rec.AssertStatus(t, http.StatusNotFound)

	rec = e.do(testutil.WithUser(testutil.NewJSONRequest("POST", "/api/jobs/"+job.ID.Hex()+"/approve", nil), admin))
	rec.AssertStatus(t, http.StatusOK)

	rec = e.do(testutil.NewJSONRequest("GET", "/api/jobs", nil))
	rec.AssertStatus(t, http.StatusOK)
	var list struct {
		Items []models.Job `json:"items"`
	}
	rec.DecodeJSON(t, &list)
	if len(list.Items) != 1 || list.Items[0].Status != models.StatusApproved {
		t.Errorf("public list: %+v", list.Items)
	}

	n, _ := e.db.Collection("audit_events").CountDocuments(ctx, bson.M{"resource_id": job.ID})
	if n != 2 {
		t.Errorf("expected submitted and approved audit events, got %d", n)
	}
}

func TestSubmit_Errors(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := e.fx.CreateMember(ctx, "Member", "member@example.com")

	tests := []struct {
		name   string
		req    *http.Request
		status int
		body   string
	}{
		{"anonymous", testutil.NewJSONRequest("POST", "/api/jobs", jobBody()), http.StatusUnauthorized, ""},
		{"unknown kind", testutil.WithUser(testutil.NewJSONRequest("POST", "/api/widgets", jobBody()), member), http.StatusNotFound, "not_found"},
		{"missing fields", testutil.WithUser(testutil.NewJSONRequest("POST", "/api/jobs", map[string]any{"title": "x"}), member), http.StatusBadRequest, `"company"`},
		{"malformed", testutil.WithUser(testutil.NewJSONRequest("POST", "/api/jobs", "not an object"), member), http.StatusBadRequest, "validation_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(tt.req)
			rec.AssertStatus(t, tt.status)
			if tt.body != "" {
				rec.AssertContains(t, tt.body)
			}
		})
	}
}

func TestApprove_RequiresAdmin(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := e.fx.CreateMember(ctx, "Member", "member@example.com")
	job := e.fx.CreateJob(ctx, member.ID, models.StatusPending)

	rec := e.do(testutil.WithUser(testutil.NewJSONRequest("POST", "/api/jobs/"+job.ID.Hex()+"/approve", nil), member))
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestReject_WithReason(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := e.fx.CreateMember(ctx, "Member", "member@example.com")
	admin := e.fx.CreateAdmin(ctx, "Admin", "admin@example.com")
	job := e.fx.CreateJob(ctx, member.ID, models.StatusPending)

	rec := e.do(testutil.WithUser(testutil.NewJSONRequest("POST", "/api/jobs/"+job.ID.Hex()+"/reject", map[string]string{"reason": "Spam"}), admin))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"rejection_reason":"Spam"`)

	// The owner still sees it; the reason explains why.
	rec = e.do(testutil.WithUser(testutil.NewJSONRequest("GET", "/api/jobs/"+job.ID.Hex(), nil), member))
	rec.AssertStatus(t, http.StatusOK)
}

func TestEdit_OwnerResubmits(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := e.fx.CreateMember(ctx, "Member", "member@example.com")
	job := e.fx.CreateJob(ctx, member.ID, models.StatusApproved)

	req := testutil.NewJSONRequest("PATCH", "/api/jobs/"+job.ID.Hex(), map[string]any{"salary": "90k"})
	rec := e.do(testutil.WithUser(req, member))
	rec.AssertStatus(t, http.StatusOK)

	var got models.Job
	rec.DecodeJSON(t, &got)
	if got.Salary != "90k" || got.Status != models.StatusPending || got.Title != job.Title {
		t.Errorf("after edit: status=%q salary=%q title=%q", got.Status, got.Salary, got.Title)
	}

	req = testutil.NewJSONRequest("PATCH", "/api/jobs/"+job.ID.Hex(), map[string]any{"status": "approved"})
	rec = e.do(testutil.WithUser(req, member))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, `"status"`)
}

func TestDelete_EventCascadesRegistrations(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := e.fx.CreateMember(ctx, "Owner", "owner@example.com")
	ev := e.fx.CreateEvent(ctx, owner.ID, testutil.EventOptions{})

	regs := registrationstore.New(e.db)
	if err := regs.Confirm(ctx, ev.ID, owner.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	rec := e.do(testutil.WithUser(testutil.NewJSONRequest("DELETE", "/api/events/"+ev.ID.Hex(), nil), owner))
	rec.AssertStatus(t, http.StatusOK)

	n, _ := e.db.Collection("event_registrations").CountDocuments(ctx, bson.M{"event_id": ev.ID})
	if n != 0 {
		t.Errorf("expected registrations removed, got %d", n)
	}
}

func TestDelete_JobCascadesApplications(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := e.fx.CreateMember(ctx, "Owner", "owner@example.com")
	applicant := e.fx.CreateMember(ctx, "Applicant", "applicant@example.com")
	job := e.fx.CreateJob(ctx, owner.ID, models.StatusApproved)

	if _, err := applicationstore.New(e.db).Create(ctx, models.JobApplication{JobID: job.ID, UserID: applicant.ID}); err != nil {
		t.Fatalf("Create application: %v", err)
	}

	rec := e.do(testutil.WithUser(testutil.NewJSONRequest("DELETE", "/api/jobs/"+job.ID.Hex(), nil), owner))
	rec.AssertStatus(t, http.StatusOK)

	n, _ := e.db.Collection("job_applications").CountDocuments(ctx, bson.M{"job_id": job.ID})
	if n != 0 {
		t.Errorf("expected applications removed, got %d", n)
	}
}

func TestCloseEvent(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := e.fx.CreateMember(ctx, "Owner", "owner@example.com")
	admin := e.fx.CreateAdmin(ctx, "Admin", "admin@example.com")
	ev := e.fx.CreateEvent(ctx, owner.ID, testutil.EventOptions{})

	req := testutil.NewJSONRequest("POST", "/api/events/"+ev.ID.Hex()+"/close", map[string]string{"status": "cancelled"})
	rec := e.do(testutil.WithUser(req, admin))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"status":"cancelled"`)

	req = testutil.NewJSONRequest("POST", "/api/events/"+ev.ID.Hex()+"/close", map[string]string{"status": "cancelled"})
	rec = e.do(testutil.WithUser(req, admin))
	rec.AssertStatus(t, http.StatusConflict)
}

func TestBlogDraftRoutes(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := e.fx.CreateMember(ctx, "Writer", "writer@example.com")

	rec := e.do(testutil.WithUser(testutil.NewJSONRequest("POST", "/api/blogs/drafts", map[string]any{
		"title": "Notes", "content": "<p>draft</p>",
	}), member))
	rec.AssertStatus(t, http.StatusCreated)
	var blog models.Blog
	rec.DecodeJSON(t, &blog)
	if blog.Status != models.StatusDraft {
		t.Fatalf("status: %q", blog.Status)
	}

	rec = e.do(testutil.WithUser(testutil.NewJSONRequest("POST", "/api/blogs/"+blog.ID.Hex()+"/submit", nil), member))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"status":"pending"`)
}

func TestPendingQueue(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	member := e.fx.CreateMember(ctx, "Member", "member@example.com")
	admin := e.fx.CreateAdmin(ctx, "Admin", "admin@example.com")
	e.fx.CreateJob(ctx, member.ID, models.StatusPending)
	e.fx.CreateJob(ctx, member.ID, models.StatusApproved)

	rec := e.do(testutil.WithUser(testutil.NewJSONRequest("GET", "/api/admin/pending/jobs", nil), admin))
	rec.AssertStatus(t, http.StatusOK)
	if c := strings.Count(rec.Body.String(), `"status":"pending"`); c != 1 {
		t.Errorf("expected one pending job, got %d", c)
	}

	rec = e.do(testutil.WithUser(testutil.NewJSONRequest("GET", "/api/admin/pending/jobs", nil), member))
	rec.AssertStatus(t, http.StatusForbidden)
}
