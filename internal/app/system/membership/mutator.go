// internal/app/system/membership/mutator.go
package membership

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	documentstore "github.com/dalemusser/guildhub/internal/app/store/documents"
	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxToggleAttempts bounds the compare-and-set retries of Toggle.
const maxToggleAttempts = 5

// Mutator adds, removes, and toggles users in membership sets. Every write
// is one conditional single-document update, so concurrent callers never
// duplicate a member or exceed a capacity.
type Mutator struct {
	store documentstore.Store
	now   func() time.Time
}

func New(store documentstore.Store) *Mutator {
	return &Mutator{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source. Used by tests.
func (m *Mutator) WithClock(now func() time.Time) *Mutator {
	m.now = now
	return m
}

// Add inserts user into the set. When out is non-nil the updated parent is
// decoded into it.
//
// On a precondition miss the parent is re-read once and the failure is
// classified in a fixed order: ErrNotFound, ErrAlreadyMember, ErrNotOpen,
// ErrDeadlinePassed, ErrCapacityFull. If none applies any more the state
// moved between the write and the read, and ErrCannotJoin is returned.
func (m *Mutator) Add(ctx context.Context, s *Set, t Target, user primitive.ObjectID, out any) error {
	now := m.now()
	err := m.store.Update(ctx, s.Collection, s.addFilter(t, user, now), s.addUpdate(user, now), out, s.arrayFilters(t)...)
	if err == nil {
		return nil
	}
	if !errors.Is(err, documentstore.ErrNoDocument) {
		return fmt.Errorf("add to %s: %w", s.Name, err)
	}

	snap, err := m.load(ctx, s, t)
	if err != nil {
		return err
	}
	switch {
	case snap.has(s, user):
		return apperr.ErrAlreadyMember
	case !snap.open(s):
		return apperr.ErrNotOpen
	case snap.pastDeadline(s, now):
		return apperr.ErrDeadlinePassed
	case snap.full(s):
		return apperr.ErrCapacityFull
	default:
		return apperr.ErrCannotJoin
	}
}

// Remove pulls user from the set. Removing a non-member succeeds without
// change. Removing the creator of a creator-protected set is ErrForbidden.
func (m *Mutator) Remove(ctx context.Context, s *Set, t Target, user primitive.ObjectID, out any) error {
	err := m.store.Update(ctx, s.Collection, s.removeFilter(t, user), s.removeUpdate(user), out, s.arrayFilters(t)...)
	if err == nil {
		return nil
	}
	if !errors.Is(err, documentstore.ErrNoDocument) {
		return fmt.Errorf("remove from %s: %w", s.Name, err)
	}

	if _, err := m.load(ctx, s, t); err != nil {
		return err
	}
	if s.Creator != "" {
		return apperr.ErrForbidden
	}
	return fmt.Errorf("remove from %s: %w", s.Name, apperr.ErrConflict)
}

// Toggle flips user's membership and reports whether user is a member
// afterwards. The flip is a compare-and-set guarded by the membership that
// was read; a concurrent change makes the guard miss and Toggle re-reads.
// Turning membership on respects the open statuses; turning it off never
// is gated.
func (m *Mutator) Toggle(ctx context.Context, s *Set, t Target, user primitive.ObjectID, out any) (bool, error) {
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		snap, err := m.load(ctx, s, t)
		if err != nil {
			return false, err
		}

		present := snap.has(s, user)
		var filter, update bson.M
		if present {
			filter = bson.M{"$and": bson.A{bson.M{"_id": t.ID}, s.memberFilter(t, user, true)}}
			update = s.removeUpdate(user)
		} else {
			if !snap.open(s) {
				return false, apperr.ErrNotOpen
			}
			and := bson.A{bson.M{"_id": t.ID}, s.memberFilter(t, user, false)}
			if f := s.openFilter(); f != nil {
				and = append(and, f)
			}
			filter = bson.M{"$and": and}
			update = s.addUpdate(user, m.now())
		}

		err = m.store.Update(ctx, s.Collection, filter, update, out, s.arrayFilters(t)...)
		if err == nil {
			return !present, nil
		}
		if !errors.Is(err, documentstore.ErrNoDocument) {
			return false, fmt.Errorf("toggle %s: %w", s.Name, err)
		}
	}
	return false, fmt.Errorf("toggle %s: %w", s.Name, apperr.ErrConflict)
}

// Contains reports whether user is in the set.
func (m *Mutator) Contains(ctx context.Context, s *Set, t Target, user primitive.ObjectID) (bool, error) {
	snap, err := m.load(ctx, s, t)
	if err != nil {
		return false, err
	}
	return snap.has(s, user), nil
}

// Count returns the size of the set.
func (m *Mutator) Count(ctx context.Context, s *Set, t Target) (int, error) {
	snap, err := m.load(ctx, s, t)
	if err != nil {
		return 0, err
	}
	return len(snap.members), nil
}

// snapshot is a read of the parent taken to classify a failed write.
type snapshot struct {
	doc     bson.Raw
	members []bson.RawValue
}

func (m *Mutator) load(ctx context.Context, s *Set, t Target) (*snapshot, error) {
	var doc bson.Raw
	if err := m.store.Get(ctx, s.Collection, t.ID, &doc); err != nil {
		if errors.Is(err, documentstore.ErrNoDocument) {
			return nil, fmt.Errorf("%s: %w", s.Name, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("load %s: %w", s.Name, err)
	}

	holder := doc
	if s.Nested != "" {
		elem, ok := findElement(doc, s.Nested, t.Elem)
		if !ok {
			return nil, fmt.Errorf("%s element: %w", s.Name, apperr.ErrNotFound)
		}
		holder = elem
	}

	var members []bson.RawValue
	if arr, ok := holder.Lookup(s.Field).ArrayOK(); ok {
		members, _ = arr.Values()
	}
	return &snapshot{doc: doc, members: members}, nil
}

func findElement(doc bson.Raw, field string, id primitive.ObjectID) (bson.Raw, bool) {
	arr, ok := doc.Lookup(field).ArrayOK()
	if !ok {
		return nil, false
	}
	vals, _ := arr.Values()
	for _, v := range vals {
		elem, ok := v.DocumentOK()
		if !ok {
			continue
		}
		if eid, ok := elem.Lookup("_id").ObjectIDOK(); ok && eid == id {
			return elem, true
		}
	}
	return nil, false
}

func (sn *snapshot) has(s *Set, user primitive.ObjectID) bool {
	for _, v := range sn.members {
		if s.Key != "" {
			d, ok := v.DocumentOK()
			if !ok {
				continue
			}
			v = d.Lookup(s.Key)
		}
		if id, ok := v.ObjectIDOK(); ok && id == user {
			return true
		}
	}
	return false
}

func (sn *snapshot) open(s *Set) bool {
	if len(s.Open) == 0 {
		return true
	}
	status, _ := sn.doc.Lookup("status").StringValueOK()
	return slices.Contains(s.Open, status)
}

func (sn *snapshot) pastDeadline(s *Set, now time.Time) bool {
	if s.Deadline == "" {
		return false
	}
	ms, ok := sn.doc.Lookup(s.Deadline).DateTimeOK()
	if !ok {
		return false
	}
	return now.After(time.UnixMilli(ms))
}

func (sn *snapshot) full(s *Set) bool {
	if s.Capacity == "" || s.Nested != "" {
		return false
	}
	limit, ok := sn.doc.Lookup(s.Capacity).AsInt64OK()
	if !ok || limit <= 0 {
		return false
	}
	return int64(len(sn.members)) >= limit
}
