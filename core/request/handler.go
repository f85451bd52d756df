package request

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

func HandleCreate(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var in RequestNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		req, err := core.Create(ctx, clm, in)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, req, http.StatusCreated)
	}
}

func HandleShow(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(fmt.Errorf("passed id is not valid: %w", err))
		}

		req, err := core.Fetch(ctx, clm, id)
		if err != nil {
			return fmt.Errorf("fetching request[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, req, http.StatusOK)
	}
}

func HandleListOwned(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		page, rows, err := web.Paging(r)
		if err != nil {
			return weberr.BadRequest(err)
		}

		reqs, err := core.ListOwned(ctx, clm, page, rows)
		if err != nil {
			return fmt.Errorf("listing requests of user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, reqs, http.StatusOK)
	}
}

// HandleList is the admin review queue, filtered by the status query
// parameter which may be repeated.
func HandleList(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		page, rows, err := web.Paging(r)
		if err != nil {
			return weberr.BadRequest(err)
		}

		var statuses []Status
		for _, s := range r.URL.Query()["status"] {
			statuses = append(statuses, Status(s))
		}

		reqs, err := core.ListByStatus(ctx, clm, statuses, page, rows)
		if err != nil {
			return fmt.Errorf("listing requests by status: %w", err)
		}

		return web.Respond(ctx, w, reqs, http.StatusOK)
	}
}

func HandleEvents(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(fmt.Errorf("passed id is not valid: %w", err))
		}

		evs, err := core.Events(ctx, clm, id)
		if err != nil {
			return fmt.Errorf("listing events of request[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, evs, http.StatusOK)
	}
}

func HandleUpdate(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(fmt.Errorf("passed id is not valid: %w", err))
		}

		var up RequestUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		req, err := core.Update(ctx, clm, id, up)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, req, http.StatusOK)
	}
}

func HandleSetListing(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(fmt.Errorf("passed id is not valid: %w", err))
		}

		var in ListingIn
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		req, err := core.SetListing(ctx, clm, id, in)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, req, http.StatusOK)
	}
}

func HandleConfirmPayment(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(fmt.Errorf("passed id is not valid: %w", err))
		}

		req, err := core.ConfirmPayment(ctx, clm, id)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, req, http.StatusOK)
	}
}

func HandleSubmit(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(fmt.Errorf("passed id is not valid: %w", err))
		}

		sub, err := core.Submit(ctx, clm, id)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, sub, http.StatusOK)
	}
}

func HandleApprove(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(fmt.Errorf("passed id is not valid: %w", err))
		}

		l, err := core.Approve(ctx, clm, id)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, l, http.StatusCreated)
	}
}

func HandleReject(core *Core) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequest(fmt.Errorf("passed id is not valid: %w", err))
		}

		var in RejectIn
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		req, err := core.Reject(ctx, clm, id, in)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, req, http.StatusOK)
	}
}
