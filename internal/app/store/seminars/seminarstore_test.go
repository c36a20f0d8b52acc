package seminarstore_test

import (
	"errors"
	"testing"
	"time"

	seminarstore "github.com/dalemusser/guildhub/internal/app/store/seminars"
	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := seminarstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sem, err := store.Create(ctx, models.Seminar{
		Title:     " Scaling Go ",
		Speaker:   "Rob",
		Date:      time.Now().Add(24 * time.Hour),
		Attendees: []primitive.ObjectID{primitive.NewObjectID()},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sem.Title != "Scaling Go" || sem.Status != models.SeminarUpcoming || len(sem.Attendees) != 0 {
		t.Errorf("unexpected seminar: %+v", sem)
	}

	got, err := store.Get(ctx, sem.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != sem.Title {
		t.Errorf("title: %q", got.Title)
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := seminarstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Seminar{Status: "someday", MaxAttendees: -1})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := []string{"title", "speaker", "date", "status", "max_attendees"}
	if diff := cmp.Diff(want, apperr.Fields(err)); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
}

func TestListAndSetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := seminarstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateAdmin(ctx, "Admin", "admin@example.com")
	a := fx.CreateSeminar(ctx, admin.ID, models.SeminarUpcoming, 0)
	fx.CreateSeminar(ctx, admin.ID, models.SeminarCompleted, 0)

	upcoming, err := store.List(ctx, models.SeminarUpcoming)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != a.ID {
		t.Errorf("upcoming: %+v", upcoming)
	}

	sem, err := store.SetStatus(ctx, a.ID, models.SeminarOngoing)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if sem.Status != models.SeminarOngoing {
		t.Errorf("status: %q", sem.Status)
	}
	if _, err := store.SetStatus(ctx, a.ID, "paused"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad status: got %v", err)
	}
	if _, err := store.SetStatus(ctx, primitive.NewObjectID(), models.SeminarOngoing); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing: got %v", err)
	}
}
