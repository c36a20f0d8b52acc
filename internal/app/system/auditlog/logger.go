// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/store/audit"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
type Config struct {
	// Moderation covers submissions, decisions, edits, closes, and deletes.
	Moderation string
	// Membership covers joins and leaves of groups, events, and seminars.
	Membership string
}

// Logger writes audit events to MongoDB (via audit.Store) and zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.String("kind", event.Kind),
		zap.String("resource_id", event.ResourceID.Hex()),
		zap.String("ip", event.IP),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	l.zapLog.Info("audit event", fields...)
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so tests can omit it.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := "all"
	switch event.Category {
	case audit.CategoryModeration:
		setting = l.config.Moderation
	case audit.CategoryMembership:
		setting = l.config.Membership
	}
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func build(r *http.Request, category, eventType string, actor authz.Actor, kind string, id primitive.ObjectID, details map[string]string) audit.Event {
	e := audit.Event{
		Category:   category,
		EventType:  eventType,
		Kind:       kind,
		ResourceID: id,
		Details:    details,
	}
	if !actor.Anonymous() {
		aid := actor.ID
		e.ActorID = &aid
	}
	if r != nil {
		e.IP = ratelimit.ClientIP(r)
		e.UserAgent = r.UserAgent()
	}
	return e
}

// Moderation logs a moderation lifecycle event. reason is recorded for
// rejections and closes.
func (l *Logger) Moderation(ctx context.Context, r *http.Request, actor authz.Actor, eventType, kind string, id primitive.ObjectID, reason string) {
	var details map[string]string
	if reason != "" {
		details = map[string]string{"reason": reason}
	}
	l.Log(ctx, build(r, audit.CategoryModeration, eventType, actor, kind, id, details))
}

// Membership logs a join or leave of a membership set.
func (l *Logger) Membership(ctx context.Context, r *http.Request, actor authz.Actor, eventType, set string, id primitive.ObjectID) {
	l.Log(ctx, build(r, audit.CategoryMembership, eventType, actor, set, id, nil))
}
