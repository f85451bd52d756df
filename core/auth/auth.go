// Package auth turns the session written by the login service into claims.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/course-listing/api/web"
	"github.com/irsalhamdi/course-listing/api/weberr"
	"github.com/irsalhamdi/course-listing/core/claims"
)

// Session keys shared with the login service.
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)

func LoadAndSave(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var herr error
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				herr = handler(r.Context(), w, r)
			})

			sm.LoadAndSave(next).ServeHTTP(w, r.WithContext(ctx))
			return herr
		}
		return h
	}
	return m
}

// Authenticate rejects requests without a logged in user and stores the
// user's claims in the context.
func Authenticate(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			clm, ok := fromSession(ctx, sm)
			if !ok {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			return handler(claims.Set(ctx, clm), w, r)
		}
		return h
	}
	return m
}

// Optional stores the claims of a logged in user, if any, and lets anonymous
// requests through.
func Optional(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if clm, ok := fromSession(ctx, sm); ok {
				ctx = claims.Set(ctx, clm)
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func Admin(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			clm, ok := fromSession(ctx, sm)
			if !ok {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}
			if !clm.Admin() {
				return weberr.Forbidden(errors.New("user is not an admin"))
			}

			return handler(claims.Set(ctx, clm), w, r)
		}
		return h
	}
	return m
}

func fromSession(ctx context.Context, sm *scs.SessionManager) (claims.Claims, bool) {
	id := sm.GetString(ctx, UserIDKey)
	if id == "" {
		return claims.Claims{}, false
	}

	role := sm.GetString(ctx, RoleKey)
	if role == "" {
		role = claims.RoleUser
	}

	return claims.Claims{UserID: id, Role: role}, true
}
