package mentoring_test

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/guildhub/internal/app/features/mentoring"
	activitystore "github.com/dalemusser/guildhub/internal/app/store/activity"
	mentorstore "github.com/dalemusser/guildhub/internal/app/store/mentors"
	notificationstore "github.com/dalemusser/guildhub/internal/app/store/notifications"
	"github.com/dalemusser/guildhub/internal/app/system/activity"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/notify"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type testEnv struct {
	db     *mongo.Database
	router http.Handler
	fx     *testutil.Fixtures
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := mentoring.NewHandler(
		mentorstore.New(db),
		notify.NewInbox(notificationstore.New(db)),
		activity.NewRecorder(activitystore.New(db), logger),
		logger,
	)
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) { mentoring.Routes(api, h, sm) })
	return &testEnv{db: db, router: r, fx: testutil.NewFixtures(t, db)}
}

func (e *testEnv) do(req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestAddSlot(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := e.fx.CreateMember(ctx, "Mentor", "mentor@example.com")
	other := e.fx.CreateMember(ctx, "Other", "other@example.com")
	m := e.fx.CreateMentor(ctx, owner.ID, models.StatusApproved, 0)
	path := "/api/mentors/" + m.ID.Hex() + "/slots"

	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Minute)
	body := map[string]any{"start": start, "end": start.Add(time.Hour)}

	rec := e.do(testutil.WithUser(testutil.NewJSONRequest("POST", path, body), owner))
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"is_booked":false`)

	rec = e.do(testutil.WithUser(testutil.NewJSONRequest("POST", path, body), other))
	rec.AssertStatus(t, http.StatusForbidden)

	bad := map[string]any{"start": start, "end": start.Add(-time.Hour)}
	rec = e.do(testutil.WithUser(testutil.NewJSONRequest("POST", path, bad), owner))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestBook(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := e.fx.CreateMember(ctx, "Mentor", "mentor@example.com")
	mentee := e.fx.CreateMember(ctx, "Mentee", "mentee@example.com")
	late := e.fx.CreateMember(ctx, "Late", "late@example.com")
	m := e.fx.CreateMentor(ctx, owner.ID, models.StatusApproved, 1)
	path := "/api/mentors/" + m.ID.Hex() + "/slots/" + m.Slots[0].ID.Hex() + "/book"

	rec := e.do(testutil.WithUser(testutil.NewJSONRequest("POST", path, nil), mentee))
	rec.AssertStatus(t, http.StatusOK)
	var body struct {
		Slot          models.MentorSlot `json:"slot"`
		TotalSessions int               `json:"total_sessions"`
	}
	rec.DecodeJSON(t, &body)
	if !body.Slot.IsBooked || body.Slot.BookedBy == nil || *body.Slot.BookedBy != mentee.ID || body.TotalSessions != 1 {
		t.Errorf("unexpected booking: %+v", body)
	}

	rec = e.do(testutil.WithUser(testutil.NewJSONRequest("POST", path, nil), late))
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, "conflict")

	n, _ := e.db.Collection("activities").CountDocuments(ctx, bson.M{"user_id": mentee.ID, "type": models.ActivitySessionBooked})
	if n != 1 {
		t.Errorf("session_booked activities: got %d, want 1", n)
	}
	n, _ = e.db.Collection("notifications").CountDocuments(ctx, bson.M{"recipient": owner.ID, "type": "session_booked"})
	if n != 1 {
		t.Errorf("mentor notifications: got %d, want 1", n)
	}
	n, _ = e.db.Collection("activities").CountDocuments(ctx, bson.M{"user_id": late.ID})
	if n != 0 {
		t.Errorf("failed booking wrote %d activities", n)
	}
}

func TestBook_ConcurrentRequests(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := e.fx.CreateMember(ctx, "Mentor", "mentor@example.com")
	m := e.fx.CreateMentor(ctx, owner.ID, models.StatusApproved, 1)
	path := "/api/mentors/" + m.ID.Hex() + "/slots/" + m.Slots[0].ID.Hex() + "/book"

	users := []models.User{
		e.fx.CreateMember(ctx, "A", "a@example.com"),
		e.fx.CreateMember(ctx, "B", "b@example.com"),
		e.fx.CreateMember(ctx, "C", "c@example.com"),
		e.fx.CreateMember(ctx, "D", "d@example.com"),
	}
	codes := make([]int, len(users))
	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(i int, u models.User) {
			defer wg.Done()
			codes[i] = e.do(testutil.WithUser(testutil.NewJSONRequest("POST", path, nil), u)).Code
		}(i, u)
	}
	wg.Wait()

	var ok, conflict int
	for _, c := range codes {
		switch c {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		default:
			t.Errorf("unexpected status %d", c)
		}
	}
	if ok != 1 || conflict != len(users)-1 {
		t.Errorf("ok=%d conflict=%d", ok, conflict)
	}
}

func TestBook_OwnAndUnknown(t *testing.T) {
	e := newTestEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := e.fx.CreateMember(ctx, "Mentor", "mentor@example.com")
	m := e.fx.CreateMentor(ctx, owner.ID, models.StatusApproved, 1)

	rec := e.do(testutil.WithUser(testutil.NewJSONRequest("POST", "/api/mentors/"+m.ID.Hex()+"/slots/"+m.Slots[0].ID.Hex()+"/book", nil), owner))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = e.do(testutil.WithUser(testutil.NewJSONRequest("POST", "/api/mentors/"+m.ID.Hex()+"/slots/not-an-id/book", nil), owner))
	rec.AssertStatus(t, http.StatusNotFound)

	rec = e.do(testutil.NewJSONRequest("POST", "/api/mentors/"+m.ID.Hex()+"/slots/"+m.Slots[0].ID.Hex()+"/book", nil))
	rec.AssertStatus(t, http.StatusUnauthorized)
}
