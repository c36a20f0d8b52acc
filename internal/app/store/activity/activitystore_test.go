package activitystore_test

import (
	"testing"
	"time"

	activitystore "github.com/dalemusser/guildhub/internal/app/store/activity"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user, other := primitive.NewObjectID(), primitive.NewObjectID()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, typ := range []string{models.ActivityJobSaved, models.ActivityJobApplication, models.ActivityEventRegistration} {
		if _, err := store.Create(ctx, models.Activity{
			UserID:    user,
			Type:      typ,
			Title:     typ,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	created, err := store.Create(ctx, models.Activity{UserID: other, Type: models.ActivityGroupJoin, Title: "Joined"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID.IsZero() || created.CreatedAt.IsZero() {
		t.Errorf("defaults not filled: %+v", created)
	}

	list, err := store.ListForUser(ctx, user, 0)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d entries, want 3", len(list))
	}
	if list[0].Type != models.ActivityEventRegistration || list[2].Type != models.ActivityJobSaved {
		t.Errorf("not newest first: %s .. %s", list[0].Type, list[2].Type)
	}

	list, _ = store.ListForUser(ctx, user, 2)
	if len(list) != 2 {
		t.Errorf("limit 2: got %d", len(list))
	}

	list, _ = store.ListForUser(ctx, primitive.NewObjectID(), 10)
	if list == nil || len(list) != 0 {
		t.Errorf("expected empty, non-nil list: %#v", list)
	}
}
