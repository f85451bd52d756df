package weberr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/irsalhamdi/course-listing/core/claims"
	"github.com/irsalhamdi/course-listing/database"
	"github.com/irsalhamdi/course-listing/validate"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "field", err: fmt.Errorf("creating: %w", validate.Required("title")), status: http.StatusUnprocessableEntity},
		{name: "not found", err: fmt.Errorf("fetching: %w", database.ErrDBNotFound), status: http.StatusNotFound},
		{name: "conflict", err: fmt.Errorf("approving: %w", database.ErrDBConflict), status: http.StatusConflict},
		{name: "forbidden", err: claims.ErrForbidden, status: http.StatusForbidden},
		{name: "missing claims", err: claims.ErrMissing, status: http.StatusUnauthorized},
		{name: "already a response", err: BadRequest(database.ErrDBNotFound), status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, status, ok := Response(Translate(tt.err))
			if !ok || status != tt.status {
				t.Fatalf("expected status %d, got %d (ok=%v)", tt.status, status, ok)
			}
		})
	}
}

func TestTranslateFieldBody(t *testing.T) {
	body, _, _ := Response(Translate(validate.Required("imageUrl")))

	fr, ok := body.(*FieldErrorResponse)
	if !ok {
		t.Fatalf("expected a field error body, got %T", body)
	}
	if fr.Field != "imageUrl" {
		t.Fatalf("expected field imageUrl, got %q", fr.Field)
	}
}

func TestTranslateUnknown(t *testing.T) {
	err := errors.New("boom")
	if got := Translate(err); got != err {
		t.Fatalf("unknown errors should pass through, got %v", got)
	}
	if Translate(nil) != nil {
		t.Fatal("nil should stay nil")
	}
}
