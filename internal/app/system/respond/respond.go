// internal/app/system/respond/respond.go
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"go.uber.org/zap"
)

type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err to its HTTP status and writes a JSON error body.
// Unexpected errors are logged and their text is not sent to the client.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	status, code := apperr.Status(err)
	body := errorBody{Error: code, Message: err.Error(), Fields: apperr.Fields(err)}
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("request failed", zap.Error(err))
		}
		body.Message = "internal server error"
	}
	JSON(w, status, body)
}

// Decode reads a JSON request body into v. Malformed bodies become
// validation errors.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return apperr.Invalid("body")
	}
	return nil
}
