package registrationstore_test

import (
	"testing"

	registrationstore "github.com/dalemusser/guildhub/internal/app/store/registrations"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_ConfirmCancelConfirm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := registrationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event, user := primitive.NewObjectID(), primitive.NewObjectID()

	if err := store.Confirm(ctx, event, user); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if err := store.Cancel(ctx, event, user); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	list, err := store.ListForUser(ctx, user)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(list) != 1 || list[0].Status != models.RegistrationCancelled || list[0].CancelledAt == nil {
		t.Fatalf("after cancel: %+v", list)
	}

	if err := store.Confirm(ctx, event, user); err != nil {
		t.Fatalf("re-Confirm failed: %v", err)
	}
	list, _ = store.ListForUser(ctx, user)
	if len(list) != 1 || list[0].Status != models.RegistrationConfirmed || list[0].CancelledAt != nil {
		t.Errorf("after re-confirm: %+v", list)
	}

	n, err := store.DeleteByEvent(ctx, event)
	if err != nil || n != 1 {
		t.Errorf("DeleteByEvent: n=%d err=%v", n, err)
	}
}

func TestStore_CancelMissingIsNoop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := registrationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Cancel(ctx, primitive.NewObjectID(), primitive.NewObjectID()); err != nil {
		t.Errorf("Cancel of missing record: %v", err)
	}
}
