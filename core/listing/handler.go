package listing

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/course-listing/api/web"
	"github.com/irsalhamdi/course-listing/api/weberr"
	"github.com/irsalhamdi/course-listing/core/claims"
	"github.com/irsalhamdi/course-listing/validate"
)

func HandleList(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		page, rows, err := web.Paging(r)
		if err != nil {
			return weberr.BadRequest(err)
		}

		q := r.URL.Query()

		f := Filter{Kind: Kind(q.Get("kind"))}
		if claims.IsAdmin(ctx) {
			for _, s := range q["status"] {
				f.Statuses = append(f.Statuses, Status(s))
			}
		}

		switch loc := q.Get("locale"); loc {
		case "", "primary":
		case "secondary":
			f.Secondary = true
		default:
			return validate.NewFieldError("locale", "unknown locale %q", loc)
		}

		ls, err := core.List(ctx, f, page, rows)
		if err != nil {
			return fmt.Errorf("listing listings: %w", err)
		}

		return web.Respond(ctx, w, ls, http.StatusOK)
	}
}

func HandleShow(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		slug := web.Param(r, "slug")

		l, err := core.FetchBySlug(ctx, slug)
		if err != nil {
			return fmt.Errorf("fetching listing[%s]: %w", slug, err)
		}

		if l.Status == Archived && !claims.IsAdmin(ctx) {
			return weberr.NotFound(fmt.Errorf("listing[%s] is archived", slug))
		}

		return web.Respond(ctx, w, l, http.StatusOK)
	}
}

func HandleExtend(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(fmt.Errorf("passed id is not valid: %w", err))
		}

		var in ExtendIn
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		l, err := core.Extend(ctx, clm, id, in)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, l, http.StatusOK)
	}
}

func HandleArchive(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(fmt.Errorf("passed id is not valid: %w", err))
		}

		l, err := core.Archive(ctx, clm, id)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, l, http.StatusOK)
	}
}
