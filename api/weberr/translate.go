package weberr

import (
	"errors"
	"net/http"

	"github.com/irsalhamdi/course-listing/core/claims"
	"github.com/irsalhamdi/course-listing/database"
	"github.com/irsalhamdi/course-listing/validate"
)

// FieldErrorResponse names the field that failed validation.
type FieldErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

// Translate maps the errors returned by the core packages to responses.
// Errors that already carry a response, and unknown errors, are returned
// unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if _, _, ok := Response(err); ok {
		return err
	}

	var fe *validate.FieldError
	switch {
	case errors.As(err, &fe):
		return Wrap(
			&RequestError{Err: err},
			WithResponse(&FieldErrorResponse{Error: fe.Error(), Field: fe.Field}, http.StatusUnprocessableEntity),
		)
	case errors.Is(err, database.ErrDBNotFound):
		return NotFound(err)
	case errors.Is(err, database.ErrDBConflict):
		return Conflict(err)
	case errors.Is(err, claims.ErrForbidden):
		return Forbidden(err)
	case errors.Is(err, claims.ErrMissing):
		return NotAuthorized(err)
	}
	return err
}
