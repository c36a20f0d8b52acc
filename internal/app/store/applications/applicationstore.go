// internal/app/store/applications/applicationstore.go
package applicationstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxCoverLetter is the longest cover letter accepted, in runes.
const MaxCoverLetter = 5000

// Store keeps job applications. The unique index on {job_id, user_id},
// created by indexes.EnsureAll, makes a second application by the same
// member fail atomically.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("job_applications")}
}

// Create stores a pending application. A second application to the same
// job is apperr.ErrAlreadyMember.
func (s *Store) Create(ctx context.Context, a models.JobApplication) (models.JobApplication, error) {
	a.CoverLetter = strings.TrimSpace(a.CoverLetter)
	a.ResumeURL = strings.TrimSpace(a.ResumeURL)
	if len([]rune(a.CoverLetter)) > MaxCoverLetter {
		return models.JobApplication{}, apperr.Invalid("cover_letter")
	}

	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.Status = models.ApplicationPending
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.JobApplication{}, fmt.Errorf("apply: %w", apperr.ErrAlreadyMember)
		}
		return models.JobApplication{}, err
	}
	return a, nil
}

// ListForUser returns the member's applications, newest first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.JobApplication, error) {
	return s.find(ctx, bson.M{"user_id": userID})
}

// ListForJob returns the applications to one job, newest first.
func (s *Store) ListForJob(ctx context.Context, jobID primitive.ObjectID) ([]models.JobApplication, error) {
	return s.find(ctx, bson.M{"job_id": jobID})
}

// DeleteByJob removes every application to a job.
func (s *Store) DeleteByJob(ctx context.Context, jobID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"job_id": jobID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.JobApplication, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.JobApplication{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
