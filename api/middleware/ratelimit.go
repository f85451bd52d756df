package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/irsalhamdi/course-listing/api/web"
	"github.com/irsalhamdi/course-listing/api/weberr"
	"github.com/irsalhamdi/course-listing/core/claims"
	"github.com/irsalhamdi/course-listing/rate"
)

// RateLimit throttles clients with lim. Authenticated callers are keyed by
// user, everyone else by remote address.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			key := clientKey(ctx, r)
			if !lim.Check(key) {
				return weberr.TooManyRequests(errors.New("rate limit exceeded for " + key))
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func clientKey(ctx context.Context, r *http.Request) string {
	if clm, err := claims.Get(ctx); err == nil {
		return "user:" + clm.UserID
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}
