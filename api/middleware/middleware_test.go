package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/irsalhamdi/course-listing/api/web"
	"github.com/irsalhamdi/course-listing/database"
	"github.com/sirupsen/logrus"
)

func serve(t *testing.T, h web.Handler) *httptest.ResponseRecorder {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	h = web.WrapMiddleware([]web.Middleware{RequestID(), Errors(log), Panics()}, h)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := h(r.Context(), w, r); err != nil {
		t.Fatalf("error escaped the middleware chain: %v", err)
	}
	return w
}

func TestErrorsTranslates(t *testing.T) {
	w := serve(t, func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return database.ErrDBConflict
	})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
	}
}

func TestErrorsHidesInternals(t *testing.T) {
	w := serve(t, func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errors.New("connection refused to 10.0.0.3")
	})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("internal error leaked: %q", body.Error)
	}
}

func TestPanics(t *testing.T) {
	w := serve(t, func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("nil map")
	})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestRequestID(t *testing.T) {
	var got string
	h := RequestID()(func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		got = ContextRequestID(ctx)
		return nil
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "abc")
	if err := h(r.Context(), httptest.NewRecorder(), r); err != nil {
		t.Fatal(err)
	}
	if got != "abc" {
		t.Fatalf("expected the caller's request id, got %q", got)
	}
}
