// internal/app/store/documents/documentstore.go
package documentstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoDocument is returned when a lookup or a conditional update matches no
// document. Callers decide what a miss means (absent, precondition failed).
var ErrNoDocument = errors.New("no matching document")

// Store is the persistence surface the moderation engine and the membership
// mutator are written against. Every write is a single-document operation,
// so atomicity comes from the database and not from callers.
type Store interface {
	// Insert stores doc in coll.
	Insert(ctx context.Context, coll string, doc any) error
	// Get decodes the document with the given _id into out.
	Get(ctx context.Context, coll string, id primitive.ObjectID, out any) error
	// Update applies update to the first document matching filter and decodes
	// the post-update document into out (when out is non-nil). A filter miss
	// returns ErrNoDocument. arrayFilters binds positional $[name] operators.
	Update(ctx context.Context, coll string, filter, update, out any, arrayFilters ...any) error
	// Delete removes the first document matching filter.
	Delete(ctx context.Context, coll string, filter any) error
	// Find decodes all documents matching filter into out (a pointer to a slice).
	Find(ctx context.Context, coll string, filter any, out any, opts FindOptions) error
	// Count returns the number of documents matching filter.
	Count(ctx context.Context, coll string, filter any) (int64, error)
}

// FindOptions is the simple limit/offset/sort contract for list reads.
type FindOptions struct {
	Limit int64
	Skip  int64
	Sort  bson.D
}

// Mongo implements Store over a MongoDB database.
type Mongo struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) Insert(ctx context.Context, coll string, doc any) error {
	_, err := m.db.Collection(coll).InsertOne(ctx, doc)
	return err
}

func (m *Mongo) Get(ctx context.Context, coll string, id primitive.ObjectID, out any) error {
	err := m.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoDocument
	}
	return err
}

func (m *Mongo) Update(ctx context.Context, coll string, filter, update, out any, arrayFilters ...any) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if len(arrayFilters) > 0 {
		opts.SetArrayFilters(options.ArrayFilters{Filters: arrayFilters})
	}

	res := m.db.Collection(coll).FindOneAndUpdate(ctx, filter, update, opts)
	if out == nil {
		err := res.Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNoDocument
		}
		return err
	}
	if err := res.Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNoDocument
		}
		return err
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, coll string, filter any) error {
	res, err := m.db.Collection(coll).DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoDocument
	}
	return nil
}

func (m *Mongo) Find(ctx context.Context, coll string, filter any, out any, fo FindOptions) error {
	opts := options.Find()
	if fo.Limit > 0 {
		opts.SetLimit(fo.Limit)
	}
	if fo.Skip > 0 {
		opts.SetSkip(fo.Skip)
	}
	if len(fo.Sort) > 0 {
		opts.SetSort(fo.Sort)
	}

	cur, err := m.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}

func (m *Mongo) Count(ctx context.Context, coll string, filter any) (int64, error) {
	return m.db.Collection(coll).CountDocuments(ctx, filter)
}
