// internal/app/features/content/decode.go
package content

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/moderation"
)

const maxBody = 1 << 20

// decodeEntity reads a JSON body into a fresh entity of kind k.
func decodeEntity(r *http.Request, k *moderation.Kind) (moderation.Entity, error) {
	ent := k.New()
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody)).Decode(ent); err != nil {
		return nil, apperr.Invalid("body")
	}
	return ent, nil
}

// decodePatch reads a JSON body into a patch. The supplied keys become the
// patch fields, so fields absent from the body are left untouched.
func decodePatch(r *http.Request, k *moderation.Kind) (moderation.Patch, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBody))
	if err != nil {
		return moderation.Patch{}, apperr.Invalid("body")
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return moderation.Patch{}, apperr.Invalid("body")
	}
	ent := k.New()
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(ent); err != nil {
		return moderation.Patch{}, apperr.Invalid("body")
	}
	fields := make([]string, 0, len(keys))
	for key := range keys {
		fields = append(fields, key)
	}
	return moderation.Patch{Values: ent, Fields: fields}, nil
}
