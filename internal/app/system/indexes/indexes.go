// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ModeratedCollections hold submittable documents and share the moderation
// query indexes.
var ModeratedCollections = []string{
	"jobs", "blogs", "events", "gallery", "threads", "groups", "mentors", "tools", "resources",
}

/*
EnsureAll is called at startup. Each collection's set is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for coll, models := range desired() {
		if err := ensureIndexSet(ctx, db.Collection(coll), models); err != nil {
			problems = append(problems, coll+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func idx(name string, unique bool, keys ...bson.E) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: bson.D(keys), Options: opts}
}

func asc(k string) bson.E  { return bson.E{Key: k, Value: 1} }
func desc(k string) bson.E { return bson.E{Key: k, Value: -1} }

func desired() map[string][]mongo.IndexModel {
	out := map[string][]mongo.IndexModel{
		"users": {
			idx("uniq_users_email", true, asc("email")),
			idx("idx_users_role_status", false, asc("role"), asc("status")),
		},
		"seminars": {
			idx("idx_seminars_status_date", false, asc("status"), asc("date")),
		},
		"notifications": {
			idx("idx_notifications_recipient_read_created", false, asc("recipient"), asc("read"), desc("created_at")),
		},
		"event_registrations": {
			idx("uniq_registrations_event_user", true, asc("event_id"), asc("user_id")),
			idx("idx_registrations_user_registered", false, asc("user_id"), desc("registered_at")),
		},
		"job_applications": {
			idx("uniq_applications_job_user", true, asc("job_id"), asc("user_id")),
			idx("idx_applications_user_created", false, asc("user_id"), desc("created_at")),
		},
		"activities": {
			idx("idx_activities_user_created", false, asc("user_id"), desc("created_at")),
		},
		"audit_events": {
			idx("idx_audit_created", false, desc("created_at")),
			idx("idx_audit_resource", false, asc("resource_id"), desc("created_at")),
		},
	}

	for _, coll := range ModeratedCollections {
		out[coll] = append(out[coll],
			idx("idx_"+coll+"_status_created", false, asc("status"), desc("created_at")),
			idx("idx_"+coll+"_submitter_created", false, asc("submitted_by"), desc("created_at")),
		)
	}

	// One mentor profile per user.
	out["mentors"] = append(out["mentors"], idx("uniq_mentors_submitted_by", true, asc("submitted_by")))
	out["events"] = append(out["events"], idx("idx_events_start", false, asc("start_date")))
	out["groups"] = append(out["groups"], idx("idx_groups_member", false, asc("members.user_id")))
	out["jobs"] = append(out["jobs"], idx("idx_jobs_saved_by", false, asc("saved_by")))

	return out
}

/* -------------------------------------------------------------------------- */
/* Reconcile the desired indexes of one collection                            */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolOf(b *bool) bool { return b != nil && *b }

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		var all []existingIndex
		if err := cur.All(ctx, &all); err != nil {
			zap.L().Warn("failed to decode existing indexes",
				zap.String("collection", coll.Name()), zap.Error(err))
		}
		for _, ex := range all {
			existing[keySig(ex.Key)] = ex
		}
	}

	var errs []string
	for _, m := range models {
		name := *m.Options.Name
		unique := boolOf(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[sig]; ok {
			if boolOf(ex.Unique) == unique {
				continue
			}
			// Uniqueness changed: drop and recreate.
			zap.L().Info("recreating index with new options",
				zap.String("collection", coll.Name()),
				zap.String("name", ex.Name),
				zap.Bool("unique", unique))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop failed: %v", name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && isDuplicateKeyErr(err) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index (duplicates present on %s)", name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			continue
		}
		zap.L().Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func isDuplicateKeyErr(err error) bool {
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	return strings.Contains(err.Error(), "E11000")
}
