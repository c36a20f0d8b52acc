// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/guildhub/internal/app/store/audit"
	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	pageSize    = 50
	maxPageSize = 200
)

// ServeList handles GET /api/admin/audit.
//
// Filters: category, event_type, kind, resource_id, actor_id, since
// (YYYY-MM-DD or RFC 3339), limit, skip. Newest events first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("failed to query audit events", zap.Error(err))
		respond.Error(w, h.Log, err)
		return
	}

	// Batch fetch actor names
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, e := range events {
		if e.ActorID == nil {
			continue
		}
		if _, ok := seen[*e.ActorID]; !ok {
			seen[*e.ActorID] = struct{}{}
			ids = append(ids, *e.ActorID)
		}
	}
	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) > 0 {
		users, err := h.Users.GetByIDs(ctx, ids)
		if err != nil {
			h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		}
		for _, u := range users {
			names[u.ID] = u.FullName
		}
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		it := listItem{
			ID:         e.ID,
			At:         e.CreatedAt,
			Category:   e.Category,
			EventType:  e.EventType,
			Kind:       e.Kind,
			ResourceID: e.ResourceID,
			ActorID:    e.ActorID,
			IP:         e.IP,
			Details:    e.Details,
		}
		if e.ActorID != nil {
			it.ActorName = names[*e.ActorID]
		}
		items = append(items, it)
	}
	respond.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func parseFilter(r *http.Request) (audit.QueryFilter, error) {
	q := r.URL.Query()
	f := audit.QueryFilter{
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		Kind:      strings.TrimSpace(q.Get("kind")),
		Limit:     pageSize,
	}

	var bad []string
	for _, p := range []struct {
		key string
		dst **primitive.ObjectID
	}{
		{"resource_id", &f.ResourceID},
		{"actor_id", &f.ActorID},
	} {
		raw := strings.TrimSpace(q.Get(p.key))
		if raw == "" {
			continue
		}
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			bad = append(bad, p.key)
			continue
		}
		*p.dst = &oid
	}

	if raw := strings.TrimSpace(q.Get("since")); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			t, err = time.Parse(time.RFC3339, raw)
		}
		if err != nil {
			bad = append(bad, "since")
		} else {
			f.Since = &t
		}
	}
	if n, err := strconv.ParseInt(q.Get("limit"), 10, 64); err == nil && n > 0 {
		f.Limit = min(n, maxPageSize)
	}
	if n, err := strconv.ParseInt(q.Get("skip"), 10, 64); err == nil && n > 0 {
		f.Skip = n
	}

	if len(bad) > 0 {
		return f, apperr.Invalid(bad...)
	}
	return f, nil
}
