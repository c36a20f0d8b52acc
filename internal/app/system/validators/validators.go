// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"slices"
	"strings"

	seminarstore "github.com/dalemusser/guildhub/internal/app/store/seminars"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/moderation"
	"github.com/dalemusser/guildhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
//
// The validators repeat the status vocabularies and the non-negative
// capacity rule at the storage layer, so a write that bypasses the engine
// still cannot store an unknown status or a negative max_attendees.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll, logger); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema, logger); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())

	// Moderated kinds
	for _, k := range moderation.Kinds {
		ensure(k.Collection, kindSchema(k))
	}

	ensure("seminars", seminarsSchema())
	ensure("event_registrations", registrationsSchema())
	ensure("job_applications", applicationsSchema())
	ensure("activities", activitiesSchema())

	// These don't need validators; we still ensure the collections exist.
	ensure("notifications", nil)
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}

// ensureCollection idempotently makes sure name exists.
// Returns created==true only if it was created by this call.
func ensureCollection(ctx context.Context, db *mongo.Database, name string, logger *zap.Logger) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		logger.Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			logger.Debug("collection exists", zap.String("collection", name))
			return false, nil
		}
		logger.Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	logger.Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M, logger *zap.Logger) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	logger.Debug("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func enum(values []string) bson.A {
	out := make(bson.A, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

var (
	nonBlank    = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	objectID    = bson.M{"bsonType": "objectId"}
	date        = bson.M{"bsonType": "date"}
	nonNegative = bson.M{"bsonType": bson.A{"int", "long", "double"}, "minimum": 0}
)

func usersSchema() bson.M {
	roles := make([]string, 0, len(authz.DefaultGrants))
	for r := range authz.DefaultGrants {
		roles = append(roles, r)
	}
	slices.Sort(roles)

	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "email", "role", "status"},
			"properties": bson.M{
				"full_name": nonBlank,
				"email":     nonBlank,
				"role":      bson.M{"enum": enum(roles)},
				"status":    bson.M{"enum": bson.A{"active", "disabled"}},
			},
		},
	}
}

// kindSchema checks the workflow metadata every moderated document
// carries, plus any non-negative numeric fields of the kind.
func kindSchema(k *moderation.Kind) bson.M {
	props := bson.M{
		"status":       bson.M{"enum": enum(k.Statuses())},
		"submitted_by": objectID,
		"moderated_by": bson.M{"bsonType": bson.A{"objectId", "null"}},
		"is_approved":  bson.M{"bsonType": "bool"},
		"created_at":   date,
	}
	for _, f := range k.NonNegative {
		props[f] = nonNegative
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   bson.A{"status", "submitted_by", "created_at"},
			"properties": props,
		},
	}
}

func seminarsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "speaker", "date", "status", "created_by"},
			"properties": bson.M{
				"title":         nonBlank,
				"speaker":       nonBlank,
				"date":          date,
				"status":        bson.M{"enum": enum(seminarstore.Statuses)},
				"max_attendees": nonNegative,
				"created_by":    objectID,
			},
		},
	}
}

func registrationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"event_id", "user_id", "status"},
			"properties": bson.M{
				"event_id":      objectID,
				"user_id":       objectID,
				"status":        bson.M{"enum": bson.A{models.RegistrationConfirmed, models.RegistrationCancelled}},
				"registered_at": date,
			},
		},
	}
}

func applicationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"job_id", "user_id", "status", "created_at"},
			"properties": bson.M{
				"job_id":     objectID,
				"user_id":    objectID,
				"status":     bson.M{"enum": enum(models.ApplicationStatuses)},
				"created_at": date,
			},
		},
	}
}

func activitiesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "type", "title", "created_at"},
			"properties": bson.M{
				"user_id":    objectID,
				"type":       bson.M{"enum": enum(models.ActivityTypes)},
				"title":      bson.M{"bsonType": "string"},
				"created_at": date,
			},
		},
	}
}
