package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	notificationstore "github.com/dalemusser/guildhub/internal/app/store/notifications"
	"github.com/dalemusser/guildhub/internal/app/system/notify"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

type failing struct{}

func (failing) NotifyAdmins(context.Context, notify.Notice) error { return errors.New("down") }
func (failing) NotifyUser(context.Context, primitive.ObjectID, notify.Notice) error {
	return errors.New("down")
}

func TestKafkaPublisher_NotifyUser(t *testing.T) {
	w := &fakeWriter{}
	p := notify.NewKafkaPublisherWithWriter(w)

	user := primitive.NewObjectID()
	related := primitive.NewObjectID()
	err := p.NotifyUser(context.Background(), user, notify.Notice{
		Type:         "job_approved",
		Title:        "Approved",
		RelatedID:    related,
		RelatedModel: "job",
	})
	if err != nil {
		t.Fatalf("NotifyUser: %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != related.Hex() {
		t.Errorf("key: got %q, want related id", w.msgs[0].Key)
	}
	var m notify.Message
	if err := json.Unmarshal(w.msgs[0].Value, &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Audience != notify.AudienceUser || m.Recipient != user.Hex() || m.Type != "job_approved" || m.ID == "" {
		t.Errorf("unexpected message: %+v", m)
	}
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := notify.NewKafkaPublisherWithWriter(&fakeWriter{err: errors.New("broker down")})
	if err := p.NotifyAdmins(context.Background(), notify.Notice{Type: "x"}); err == nil {
		t.Error("expected error")
	}
}

func TestFanout_JoinsErrors(t *testing.T) {
	w := &fakeWriter{}
	f := notify.Fanout{failing{}, notify.NewKafkaPublisherWithWriter(w)}

	err := f.NotifyAdmins(context.Background(), notify.Notice{Type: "blog_submitted"})
	if err == nil {
		t.Error("expected joined error")
	}
	if len(w.msgs) != 1 {
		t.Errorf("healthy notifier should still deliver, got %d messages", len(w.msgs))
	}
}

func TestBestEffort_SwallowsAndLogs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	b := notify.BestEffort{Next: failing{}, Log: zap.New(core)}

	if err := b.NotifyAdmins(context.Background(), notify.Notice{Type: "x"}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := b.NotifyUser(context.Background(), primitive.NewObjectID(), notify.Notice{Type: "x"}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if logs.Len() != 2 {
		t.Errorf("expected 2 warnings, got %d", logs.Len())
	}
}

func TestInbox_WritesNotifications(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateAdmin(ctx, "Admin", "admin@example.com")
	member := fx.CreateMember(ctx, "Member", "member@example.com")
	store := notificationstore.New(db)
	inbox := notify.NewInbox(store)

	related := primitive.NewObjectID()
	if err := inbox.NotifyAdmins(ctx, notify.Notice{Type: "event_submitted", Title: "New event", RelatedID: related}); err != nil {
		t.Fatalf("NotifyAdmins: %v", err)
	}
	if err := inbox.NotifyUser(ctx, member.ID, notify.Notice{Type: "event_approved", Title: "Approved"}); err != nil {
		t.Fatalf("NotifyUser: %v", err)
	}

	adminList, _ := store.ListForUser(ctx, admin.ID, false, 0, 0)
	if len(adminList) != 1 || adminList[0].RelatedID == nil || *adminList[0].RelatedID != related {
		t.Errorf("admin inbox: %+v", adminList)
	}
	memberList, _ := store.ListForUser(ctx, member.ID, false, 0, 0)
	if len(memberList) != 1 || memberList[0].RelatedID != nil {
		t.Errorf("member inbox: %+v", memberList)
	}
}
