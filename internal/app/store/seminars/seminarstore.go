// internal/app/store/seminars/seminarstore.go
package seminarstore

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Statuses lists the seminar lifecycle in order.
var Statuses = []string{
	models.SeminarUpcoming,
	models.SeminarOngoing,
	models.SeminarCompleted,
	models.SeminarCancelled,
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("seminars")}
}

// Create validates and inserts a seminar. Status defaults to upcoming and
// attendees always start empty.
func (s *Store) Create(ctx context.Context, sem models.Seminar) (models.Seminar, error) {
	sem.Title = strings.TrimSpace(sem.Title)
	sem.Speaker = strings.TrimSpace(sem.Speaker)
	if sem.Status == "" {
		sem.Status = models.SeminarUpcoming
	}

	var bad []string
	if sem.Title == "" {
		bad = append(bad, "title")
	}
	if sem.Speaker == "" {
		bad = append(bad, "speaker")
	}
	if sem.Date.IsZero() {
		bad = append(bad, "date")
	}
	if !slices.Contains(Statuses, sem.Status) {
		bad = append(bad, "status")
	}
	if sem.MaxAttendees < 0 {
		bad = append(bad, "max_attendees")
	}
	if len(bad) > 0 {
		return models.Seminar{}, apperr.Invalid(bad...)
	}

	now := time.Now().UTC()
	sem.ID = primitive.NewObjectID()
	sem.Attendees = nil
	sem.CreatedAt = now
	sem.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, sem); err != nil {
		return models.Seminar{}, err
	}
	return sem, nil
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Seminar, error) {
	var sem models.Seminar
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sem)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Seminar{}, apperr.ErrNotFound
	}
	return sem, err
}

// List returns seminars by date, optionally narrowed to one status.
func (s *Store) List(ctx context.Context, status string) ([]models.Seminar, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Seminar
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus moves a seminar to status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (models.Seminar, error) {
	if !slices.Contains(Statuses, status) {
		return models.Seminar{}, apperr.Invalid("status")
	}
	var sem models.Seminar
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&sem)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Seminar{}, apperr.ErrNotFound
	}
	return sem, err
}
