// internal/app/system/moderation/document.go
package moderation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/htmlsanitize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// metaFields are written only by the engine.
var metaFields = []string{
	"_id", "status", "submitted_by", "moderated_by", "moderated_at",
	"rejection_reason", "is_approved", "created_at", "updated_at",
}

func toDoc(e Entity) (bson.M, error) {
	raw, err := bson.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode entity: %w", err)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("encode entity: %w", err)
	}
	return doc, nil
}

func fromRaw(k *Kind, raw bson.Raw) (Entity, error) {
	e := k.New()
	if err := bson.Unmarshal(raw, e); err != nil {
		return nil, fmt.Errorf("decode %s: %w", k.Name, err)
	}
	return e, nil
}

func fromDoc(k *Kind, doc bson.M) (Entity, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", k.Name, err)
	}
	return fromRaw(k, raw)
}

// empty reports whether a stored value counts as missing.
func empty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case bson.A:
		return len(x) == 0
	case primitive.DateTime:
		return x.Time().IsZero()
	case primitive.ObjectID:
		return x.IsZero()
	default:
		return false
	}
}

// clean trims strings and sanitizes rich fields in place.
func clean(k *Kind, doc bson.M) {
	for key, v := range doc {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if slices.Contains(k.Rich, key) {
			s = htmlsanitize.Sanitize(s)
		}
		doc[key] = s
	}
}

// check validates the fields named in keys (all of them when keys is nil).
func check(k *Kind, doc bson.M, keys []string) error {
	var bad []string
	for _, f := range k.Required {
		if keys != nil && !slices.Contains(keys, f) {
			continue
		}
		if empty(doc[f]) {
			bad = append(bad, f)
		}
	}
	for f, allowed := range k.Enums {
		if keys != nil && !slices.Contains(keys, f) {
			continue
		}
		s, _ := doc[f].(string)
		if s != "" && !slices.Contains(allowed, s) {
			bad = append(bad, f)
		}
	}
	for _, f := range k.NonNegative {
		if keys != nil && !slices.Contains(keys, f) {
			continue
		}
		if negative(doc[f]) {
			bad = append(bad, f)
		}
	}
	if len(bad) > 0 {
		slices.Sort(bad)
		return apperr.Invalid(bad...)
	}
	return nil
}

func negative(v any) bool {
	switch x := v.(type) {
	case int32:
		return x < 0
	case int64:
		return x < 0
	case int:
		return x < 0
	case float64:
		return x < 0
	default:
		return false
	}
}

func label(k *Kind, raw bson.Raw) string {
	s, _ := raw.Lookup(k.LabelField).StringValueOK()
	if r := []rune(s); len(r) > 80 {
		s = string(r[:80]) + "…"
	}
	return s
}
