package validate

import (
	"errors"
	"testing"
)

type sample struct {
	Title string `json:"title" validate:"required"`
	Days  *int   `json:"listingDays" validate:"omitempty,gte=1"`
}

func TestCheckReportsJSONFieldName(t *testing.T) {
	err := Check(sample{})
	if err == nil {
		t.Fatal("expected an error for a missing title")
	}

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected a *FieldError, got %T", err)
	}
	if fe.Field != "title" {
		t.Fatalf("expected field %q, got %q", "title", fe.Field)
	}
}

func TestCheckOK(t *testing.T) {
	days := 3
	if err := Check(sample{Title: "Go", Days: &days}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	days = 0
	if err := Check(sample{Title: "Go", Days: &days}); !IsFieldError(err) {
		t.Fatalf("expected a field error for zero days, got %v", err)
	}
}

func TestCheckID(t *testing.T) {
	if err := CheckID(GenerateID()); err != nil {
		t.Fatalf("generated id rejected: %v", err)
	}
	if err := CheckID("not-a-uuid"); err == nil {
		t.Fatal("expected malformed id to be rejected")
	}
}
