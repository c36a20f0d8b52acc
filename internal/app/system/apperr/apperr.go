// internal/app/system/apperr/apperr.go
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

// Sentinel error kinds shared by the moderation engine, the membership
// mutator, and the HTTP layer. Components wrap these with fmt.Errorf("%w")
// and callers test them with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state for this action")

	// Membership add preconditions.
	ErrAlreadyMember  = errors.New("already a member")
	ErrCapacityFull   = errors.New("capacity reached")
	ErrDeadlinePassed = errors.New("registration deadline has passed")
	ErrNotOpen        = errors.New("not open for membership")
	ErrCannotJoin     = errors.New("cannot join")
)

// ValidationError lists the payload fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, ", ")
}

// Is lets errors.Is(err, ErrValidation) match a *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError for the given fields.
func Invalid(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// Status maps an error to an HTTP status code and a stable machine code.
func Status(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, ErrAlreadyMember):
		return http.StatusConflict, "already_member"
	case errors.Is(err, ErrCapacityFull):
		return http.StatusConflict, "capacity_full"
	case errors.Is(err, ErrDeadlinePassed):
		return http.StatusConflict, "deadline_passed"
	case errors.Is(err, ErrNotOpen):
		return http.StatusConflict, "not_open"
	case errors.Is(err, ErrCannotJoin):
		return http.StatusConflict, "cannot_join"
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// Fields returns the field list of a validation error, or nil.
func Fields(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
