// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a notification does not exist for the recipient.
var ErrNotFound = errors.New("notification not found")

type Store struct {
	c     *mongo.Collection
	users *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("notifications"),
		users: db.Collection("users"),
	}
}

// Create inserts one notification. ID, CreatedAt, Read, and Priority are
// filled in when empty.
func (s *Store) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	prepare(&n, time.Now().UTC())
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// CreateForAdmins inserts one copy of tmpl for every active admin and
// returns how many were written.
func (s *Store) CreateForAdmins(ctx context.Context, tmpl models.Notification) (int, error) {
	cur, err := s.users.Find(ctx,
		bson.M{"role": bson.M{"$in": bson.A{models.RoleAdmin, "superadmin"}}, "status": bson.M{"$ne": "disabled"}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return 0, err
	}
	var admins []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &admins); err != nil {
		return 0, err
	}
	if len(admins) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(admins))
	for _, a := range admins {
		n := tmpl
		n.ID = primitive.NilObjectID
		n.Recipient = a.ID
		prepare(&n, now)
		docs = append(docs, n)
	}
	res, err := s.c.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

// ListForUser returns the recipient's notifications, newest first.
func (s *Store) ListForUser(ctx context.Context, user primitive.ObjectID, unreadOnly bool, limit, skip int64) ([]models.Notification, error) {
	filter := bson.M{"recipient": user}
	if unreadOnly {
		filter["read"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadCount returns the number of unread notifications for user.
func (s *Store) UnreadCount(ctx context.Context, user primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"recipient": user, "read": false})
}

// MarkRead marks one of user's notifications as read. Marking an already
// read notification again succeeds.
func (s *Store) MarkRead(ctx context.Context, user, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "recipient": user},
		[]bson.M{{"$set": bson.M{
			"read":    true,
			"read_at": bson.M{"$ifNull": bson.A{"$read_at", time.Now().UTC()}},
		}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of user as read and returns
// how many changed.
func (s *Store) MarkAllRead(ctx context.Context, user primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"recipient": user, "read": false},
		bson.M{"$set": bson.M{"read": true, "read_at": time.Now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func prepare(n *models.Notification, now time.Time) {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}
	n.Read = false
	n.ReadAt = nil
}
