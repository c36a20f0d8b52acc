// internal/app/store/mentors/mentorstore.go
package mentorstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrSlotBooked is returned when the slot was taken before this booking.
var ErrSlotBooked = fmt.Errorf("slot already booked: %w", apperr.ErrConflict)

// Store owns the slots and total_sessions fields of mentor profiles. The
// rest of the profile goes through the moderation engine.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("mentors"), now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the store's time source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// AddSlot appends an open slot to the mentor profile owned by owner.
func (s *Store) AddSlot(ctx context.Context, mentorID, owner primitive.ObjectID, start, end time.Time) (models.MentorSlot, error) {
	var bad []string
	if start.IsZero() || start.Before(s.now()) {
		bad = append(bad, "start")
	}
	if !end.After(start) {
		bad = append(bad, "end")
	}
	if len(bad) > 0 {
		return models.MentorSlot{}, apperr.Invalid(bad...)
	}

	slot := models.MentorSlot{ID: primitive.NewObjectID(), Start: start.UTC(), End: end.UTC()}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": mentorID, "submitted_by": owner},
		bson.M{
			"$push": bson.M{"slots": slot},
			"$set":  bson.M{"updated_at": s.now()},
		})
	if err != nil {
		return models.MentorSlot{}, err
	}
	if res.MatchedCount == 0 {
		return models.MentorSlot{}, s.missing(ctx, mentorID)
	}
	return slot, nil
}

// Book marks one open slot as booked by user in a single guarded update,
// so two concurrent bookings of the same slot cannot both succeed. The
// mentor must be approved and may not book their own slot.
func (s *Store) Book(ctx context.Context, mentorID, slotID, user primitive.ObjectID) (models.Mentor, error) {
	now := s.now()
	filter := bson.M{
		"_id":          mentorID,
		"status":       models.StatusApproved,
		"submitted_by": bson.M{"$ne": user},
		"slots":        bson.M{"$elemMatch": bson.M{"_id": slotID, "is_booked": false}},
	}
	update := bson.M{
		"$set": bson.M{
			"slots.$[s].is_booked": true,
			"slots.$[s].booked_by": user,
			"slots.$[s].booked_at": now,
			"updated_at":           now,
		},
		"$inc": bson.M{"total_sessions": 1},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetArrayFilters(options.ArrayFilters{Filters: []any{bson.M{"s._id": slotID}}})

	var m models.Mentor
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&m)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Mentor{}, err
	}
	return models.Mentor{}, s.classifyBookMiss(ctx, mentorID, slotID, user)
}

// Get returns the mentor profile without any visibility check.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Mentor, error) {
	var m models.Mentor
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Mentor{}, apperr.ErrNotFound
	}
	return m, err
}

func (s *Store) missing(ctx context.Context, id primitive.ObjectID) error {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return apperr.ErrForbidden
}

func (s *Store) classifyBookMiss(ctx context.Context, mentorID, slotID, user primitive.ObjectID) error {
	m, err := s.Get(ctx, mentorID)
	if err != nil {
		return err
	}
	if m.Status != models.StatusApproved {
		return apperr.ErrNotFound
	}
	if m.SubmittedBy == user {
		return fmt.Errorf("book own slot: %w", apperr.ErrForbidden)
	}
	for _, sl := range m.Slots {
		if sl.ID == slotID {
			return ErrSlotBooked
		}
	}
	return fmt.Errorf("slot: %w", apperr.ErrNotFound)
}
