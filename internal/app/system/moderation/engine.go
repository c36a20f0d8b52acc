// internal/app/system/moderation/engine.go
package moderation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	documentstore "github.com/dalemusser/guildhub/internal/app/store/documents"
	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/notify"
	"github.com/dalemusser/guildhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultRejectionReason is stored when a moderator gives no reason.
const DefaultRejectionReason = "Does not meet requirements"

// List limits.
const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Engine runs the submit, decide, edit, and read workflow for every
// moderated kind. It holds no state of its own; each transition is one
// conditional update against the store.
type Engine struct {
	store    documentstore.Store
	authz    Authorizer
	notifier notify.Notifier
	now      func() time.Time
}

// New builds an Engine. Notification failures are logged and never
// returned to callers.
func New(store documentstore.Store, az Authorizer, n notify.Notifier, logger *zap.Logger) *Engine {
	if n == nil {
		n = notify.Nop{}
	}
	return &Engine{
		store:    store,
		authz:    az,
		notifier: notify.BestEffort{Next: n, Log: logger},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) isAdmin(a authz.Actor) bool {
	return e.authz.HasCapability(a, authz.CapModerate)
}

// Submit stores a new entity in the pending state and notifies admins.
func (e *Engine) Submit(ctx context.Context, k *Kind, ent Entity, author authz.Actor) (Entity, error) {
	out, raw, err := e.create(ctx, k, ent, author, k.Pending, nil)
	if err != nil {
		return nil, err
	}
	e.notifySubmitted(ctx, k, out.Meta().ID, raw)
	return out, nil
}

// SaveDraft stores a new entity in the draft state. Only the label field
// is required; the rest is checked when the draft is submitted.
func (e *Engine) SaveDraft(ctx context.Context, k *Kind, ent Entity, author authz.Actor) (Entity, error) {
	if !k.Drafts {
		return nil, fmt.Errorf("%s has no drafts: %w", k.Name, apperr.ErrInvalidState)
	}
	out, _, err := e.create(ctx, k, ent, author, models.StatusDraft, []string{k.LabelField})
	return out, err
}

func (e *Engine) create(ctx context.Context, k *Kind, ent Entity, author authz.Actor, status string, keys []string) (Entity, bson.Raw, error) {
	if author.Anonymous() {
		return nil, nil, apperr.ErrUnauthorized
	}
	doc, err := toDoc(ent)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range metaFields {
		delete(doc, f)
	}
	for _, f := range k.Managed {
		delete(doc, f)
	}
	clean(k, doc)
	if err := check(k, doc, keys); err != nil {
		return nil, nil, err
	}

	now := e.now()
	doc["_id"] = primitive.NewObjectID()
	doc["status"] = status
	doc["submitted_by"] = author.ID
	doc["is_approved"] = false
	doc["created_at"] = now
	doc["updated_at"] = now
	if k.OnSubmit != nil {
		k.OnSubmit(doc, author.ID, now)
	}

	if err := e.store.Insert(ctx, k.Collection, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, nil, fmt.Errorf("submit %s: %w", k.Name, apperr.ErrConflict)
		}
		return nil, nil, fmt.Errorf("submit %s: %w", k.Name, err)
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("submit %s: %w", k.Name, err)
	}
	out, err := fromRaw(k, raw)
	if err != nil {
		return nil, nil, err
	}
	return out, raw, nil
}

// SubmitDraft moves the author's draft to pending once it passes full
// validation, and notifies admins.
func (e *Engine) SubmitDraft(ctx context.Context, k *Kind, id primitive.ObjectID, author authz.Actor) (Entity, error) {
	if author.Anonymous() {
		return nil, apperr.ErrUnauthorized
	}
	if !k.Drafts {
		return nil, fmt.Errorf("%s has no drafts: %w", k.Name, apperr.ErrInvalidState)
	}
	raw, err := e.load(ctx, k, id)
	if err != nil {
		return nil, err
	}
	current, err := fromRaw(k, raw)
	if err != nil {
		return nil, err
	}
	if current.Meta().SubmittedBy != author.ID {
		return nil, apperr.ErrNotFound
	}
	if current.Meta().Status != models.StatusDraft {
		return nil, fmt.Errorf("%s is %s: %w", k.Name, current.Meta().Status, apperr.ErrInvalidState)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", k.Name, err)
	}
	if err := check(k, doc, nil); err != nil {
		return nil, err
	}

	var updated bson.Raw
	err = e.store.Update(ctx, k.Collection,
		bson.M{"_id": id, "submitted_by": author.ID, "status": models.StatusDraft},
		bson.M{"$set": bson.M{"status": k.Pending, "updated_at": e.now()}},
		&updated)
	if errors.Is(err, documentstore.ErrNoDocument) {
		return nil, fmt.Errorf("%s left draft: %w", k.Name, apperr.ErrInvalidState)
	}
	if err != nil {
		return nil, fmt.Errorf("submit draft %s: %w", k.Name, err)
	}
	out, err := fromRaw(k, updated)
	if err != nil {
		return nil, err
	}
	e.notifySubmitted(ctx, k, id, updated)
	return out, nil
}

// Approve moves an entity to the kind's public state. Re-approving an
// approved entity rewrites the moderation metadata.
func (e *Engine) Approve(ctx context.Context, k *Kind, id primitive.ObjectID, moderator authz.Actor) (Entity, error) {
	now := e.now()
	update := bson.M{
		"$set": bson.M{
			"status":       k.Public,
			"is_approved":  true,
			"moderated_by": moderator.ID,
			"moderated_at": now,
			"updated_at":   now,
		},
		"$unset": bson.M{"rejection_reason": ""},
	}
	out, raw, err := e.decide(ctx, k, id, moderator, update)
	if err != nil {
		return nil, err
	}
	e.notifyUser(ctx, out.Meta().SubmittedBy, notify.Notice{
		Type:         noticeType(k, "approved"),
		Title:        fmt.Sprintf("Your %s was approved", k.Name),
		Message:      label(k, raw),
		RelatedID:    id,
		RelatedModel: k.Name,
		Priority:     models.PriorityMedium,
	})
	return out, nil
}

// Reject moves an entity to the kind's rejected state with reason.
func (e *Engine) Reject(ctx context.Context, k *Kind, id primitive.ObjectID, moderator authz.Actor, reason string) (Entity, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectionReason
	}
	now := e.now()
	update := bson.M{"$set": bson.M{
		"status":           k.Rejected,
		"is_approved":      false,
		"rejection_reason": reason,
		"moderated_by":     moderator.ID,
		"moderated_at":     now,
		"updated_at":       now,
	}}
	out, _, err := e.decide(ctx, k, id, moderator, update)
	if err != nil {
		return nil, err
	}
	e.notifyUser(ctx, out.Meta().SubmittedBy, notify.Notice{
		Type:         noticeType(k, "rejected"),
		Title:        fmt.Sprintf("Your %s was not approved", k.Name),
		Message:      reason,
		RelatedID:    id,
		RelatedModel: k.Name,
		Priority:     models.PriorityHigh,
	})
	return out, nil
}

func (e *Engine) decide(ctx context.Context, k *Kind, id primitive.ObjectID, moderator authz.Actor, update bson.M) (Entity, bson.Raw, error) {
	if !e.isAdmin(moderator) {
		return nil, nil, apperr.ErrForbidden
	}
	filter := bson.M{"_id": id, "status": bson.M{"$in": k.decidable()}}
	var raw bson.Raw
	err := e.store.Update(ctx, k.Collection, filter, update, &raw)
	if errors.Is(err, documentstore.ErrNoDocument) {
		return nil, nil, e.classifyState(ctx, k, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("moderate %s: %w", k.Name, err)
	}
	out, err := fromRaw(k, raw)
	if err != nil {
		return nil, nil, err
	}
	return out, raw, nil
}

// Close moves a public entity to one of the kind's terminal states.
func (e *Engine) Close(ctx context.Context, k *Kind, id primitive.ObjectID, moderator authz.Actor, state string) (Entity, error) {
	if !e.isAdmin(moderator) {
		return nil, apperr.ErrForbidden
	}
	if !slices.Contains(k.Closable, state) {
		return nil, apperr.Invalid("status")
	}
	var raw bson.Raw
	err := e.store.Update(ctx, k.Collection,
		bson.M{"_id": id, "status": k.Public},
		bson.M{"$set": bson.M{"status": state, "is_approved": false, "updated_at": e.now()}},
		&raw)
	if errors.Is(err, documentstore.ErrNoDocument) {
		return nil, e.classifyState(ctx, k, id)
	}
	if err != nil {
		return nil, fmt.Errorf("close %s: %w", k.Name, err)
	}
	return fromRaw(k, raw)
}

// Patch is a partial update. Values carries the new values; Fields names
// the ones the caller supplied.
type Patch struct {
	Values Entity
	Fields []string
}

// Edit applies p in one update. When the submitter edits a kind that
// resubmits on edit and the entity is in one of its resubmit states, the
// same update sends it back to pending and clears the moderation metadata.
// Moderator edits never change the status.
func (e *Engine) Edit(ctx context.Context, k *Kind, id primitive.ObjectID, editor authz.Actor, p Patch) (Entity, error) {
	if editor.Anonymous() {
		return nil, apperr.ErrUnauthorized
	}
	admin := e.isAdmin(editor)
	if !admin && !k.OwnerEdits {
		return nil, apperr.ErrForbidden
	}
	if len(p.Fields) == 0 {
		return nil, apperr.Invalid("changes")
	}
	var unknown []string
	for _, f := range p.Fields {
		if !slices.Contains(k.Editable, f) || slices.Contains(k.Managed, f) {
			unknown = append(unknown, f)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, apperr.Invalid(unknown...)
	}

	doc, err := toDoc(p.Values)
	if err != nil {
		return nil, err
	}
	clean(k, doc)
	if err := check(k, doc, p.Fields); err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": e.now()}
	for _, f := range p.Fields {
		if v, ok := doc[f]; ok && v != nil {
			set[f] = bson.M{"$literal": v}
		} else {
			set[f] = "$$REMOVE"
		}
	}

	filter := bson.M{"_id": id}
	if !admin {
		filter["submitted_by"] = editor.ID
		if len(k.ResubmitFrom) > 0 {
			resubmit := bson.M{"$in": bson.A{"$status", k.ResubmitFrom}}
			reset := func(to any, field string) bson.M {
				return bson.M{"$cond": bson.A{resubmit, to, "$" + field}}
			}
			set["status"] = reset(k.Pending, "status")
			set["is_approved"] = reset(false, "is_approved")
			set["moderated_by"] = reset("$$REMOVE", "moderated_by")
			set["moderated_at"] = reset("$$REMOVE", "moderated_at")
			set["rejection_reason"] = reset("$$REMOVE", "rejection_reason")
		}
	}

	var raw bson.Raw
	err = e.store.Update(ctx, k.Collection, filter, mongo.Pipeline{{{Key: "$set", Value: set}}}, &raw)
	if errors.Is(err, documentstore.ErrNoDocument) {
		if _, lerr := e.load(ctx, k, id); lerr != nil {
			return nil, lerr
		}
		return nil, apperr.ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("edit %s: %w", k.Name, err)
	}
	return fromRaw(k, raw)
}

// Delete removes an entity. Only its submitter or a moderator may.
func (e *Engine) Delete(ctx context.Context, k *Kind, id primitive.ObjectID, actor authz.Actor) error {
	if actor.Anonymous() {
		return apperr.ErrUnauthorized
	}
	filter := bson.M{"_id": id}
	if !e.isAdmin(actor) {
		filter["submitted_by"] = actor.ID
	}
	err := e.store.Delete(ctx, k.Collection, filter)
	if errors.Is(err, documentstore.ErrNoDocument) {
		if _, lerr := e.load(ctx, k, id); lerr != nil {
			return lerr
		}
		return apperr.ErrForbidden
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", k.Name, err)
	}
	return nil
}

// Get returns the entity when viewer may see it, ErrNotFound otherwise.
func (e *Engine) Get(ctx context.Context, k *Kind, id primitive.ObjectID, viewer authz.Actor) (Entity, error) {
	raw, err := e.load(ctx, k, id)
	if err != nil {
		return nil, err
	}
	out, err := fromRaw(k, raw)
	if err != nil {
		return nil, err
	}
	if !IsVisible(e.authz, k, out, viewer) {
		return nil, apperr.ErrNotFound
	}
	return out, nil
}

// ListOptions narrows a list read. Where is ANDed with the visibility
// filter, so it can only narrow what the viewer may see.
type ListOptions struct {
	Status string
	Where  bson.M
	Limit  int64
	Skip   int64
}

// List returns the entities viewer may see, newest first. The result is a
// pointer to a slice of the kind's model.
func (e *Engine) List(ctx context.Context, k *Kind, viewer authz.Actor, opts ListOptions) (any, error) {
	filter := VisibleFilter(e.authz, k, viewer)
	and := bson.A{filter}
	if opts.Status != "" {
		and = append(and, bson.M{"status": opts.Status})
	}
	if len(opts.Where) > 0 {
		and = append(and, opts.Where)
	}
	if len(and) > 1 {
		filter = bson.M{"$and": and}
	}
	return e.find(ctx, k, filter, opts, -1)
}

// Pending returns the moderation queue for k, oldest first.
func (e *Engine) Pending(ctx context.Context, k *Kind, moderator authz.Actor, opts ListOptions) (any, error) {
	if !e.isAdmin(moderator) {
		return nil, apperr.ErrForbidden
	}
	return e.find(ctx, k, bson.M{"status": k.Pending}, opts, 1)
}

func (e *Engine) find(ctx context.Context, k *Kind, filter bson.M, opts ListOptions, order int) (any, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	out := k.NewList()
	err := e.store.Find(ctx, k.Collection, filter, out, documentstore.FindOptions{
		Limit: limit,
		Skip:  max(opts.Skip, 0),
		Sort:  bson.D{{Key: "created_at", Value: order}, {Key: "_id", Value: order}},
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", k.Collection, err)
	}
	return out, nil
}

func (e *Engine) load(ctx context.Context, k *Kind, id primitive.ObjectID) (bson.Raw, error) {
	var raw bson.Raw
	err := e.store.Get(ctx, k.Collection, id, &raw)
	if errors.Is(err, documentstore.ErrNoDocument) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", k.Name, err)
	}
	return raw, nil
}

// classifyState explains a missed status-guarded update.
func (e *Engine) classifyState(ctx context.Context, k *Kind, id primitive.ObjectID) error {
	raw, err := e.load(ctx, k, id)
	if err != nil {
		return err
	}
	status, _ := raw.Lookup("status").StringValueOK()
	return fmt.Errorf("%s is %s: %w", k.Name, status, apperr.ErrInvalidState)
}

func (e *Engine) notifySubmitted(ctx context.Context, k *Kind, id primitive.ObjectID, raw bson.Raw) {
	_ = e.notifier.NotifyAdmins(ctx, notify.Notice{
		Type:         noticeType(k, "submitted"),
		Title:        fmt.Sprintf("New %s awaiting review", k.Name),
		Message:      label(k, raw),
		RelatedID:    id,
		RelatedModel: k.Name,
		Priority:     models.PriorityMedium,
	})
}

func (e *Engine) notifyUser(ctx context.Context, user primitive.ObjectID, n notify.Notice) {
	if user.IsZero() {
		return
	}
	_ = e.notifier.NotifyUser(ctx, user, n)
}

func noticeType(k *Kind, event string) string {
	return strings.ReplaceAll(k.Name, " ", "_") + "_" + event
}
