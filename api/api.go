package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/course-listing/api/middleware"
	"github.com/irsalhamdi/course-listing/api/web"
	"github.com/irsalhamdi/course-listing/clock"
	"github.com/irsalhamdi/course-listing/core/auth"
	"github.com/irsalhamdi/course-listing/core/listing"
	"github.com/irsalhamdi/course-listing/core/request"
	"github.com/irsalhamdi/course-listing/core/sweep"
	"github.com/irsalhamdi/course-listing/rate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin string
	Log        logrus.FieldLogger
	DB         *sqlx.DB
	Session    *scs.SessionManager
	Clock      clock.Clock
	FeePerDay  int
	Limiter    *rate.Limiter
	Sweeper    *sweep.Sweeper
}

type api struct {
	*mux.Router
	mw    []web.Middleware
	limit web.Middleware
	log   logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.Limiter != nil {
		a.limit = middleware.RateLimit(cfg.Limiter)
	}

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.System{}
	}

	requests := request.NewCore(cfg.Log, cfg.DB, clk, cfg.FeePerDay)
	listings := listing.NewCore(cfg.Log, cfg.DB, clk)

	authen := auth.Authenticate(cfg.Session)
	admin := auth.Admin(cfg.Session)
	optional := auth.Optional(cfg.Session)

	a.Handle(http.MethodGet, "/readiness", handleReadiness(cfg.Log, cfg.DB))

	a.Handle(http.MethodPost, "/requests", request.HandleCreate(requests), authen)
	a.Handle(http.MethodGet, "/requests/owned", request.HandleListOwned(requests), authen)
	a.Handle(http.MethodGet, "/requests", request.HandleList(requests), admin)
	a.Handle(http.MethodGet, "/requests/{id}/events", request.HandleEvents(requests), authen)
	a.Handle(http.MethodGet, "/requests/{id}", request.HandleShow(requests), authen)
	a.Handle(http.MethodPut, "/requests/{id}", request.HandleUpdate(requests), authen)
	a.Handle(http.MethodPost, "/requests/{id}/listing", request.HandleSetListing(requests), authen)
	a.Handle(http.MethodPost, "/requests/{id}/payment", request.HandleConfirmPayment(requests), admin)
	a.Handle(http.MethodPost, "/requests/{id}/submit", request.HandleSubmit(requests), authen)
	a.Handle(http.MethodPost, "/requests/{id}/approve", request.HandleApprove(requests), admin)
	a.Handle(http.MethodPost, "/requests/{id}/reject", request.HandleReject(requests), admin)

	a.Handle(http.MethodGet, "/listings", listing.HandleList(listings), optional)
	a.Handle(http.MethodGet, "/listings/{slug}", listing.HandleShow(listings), optional)
	a.Handle(http.MethodPost, "/listings/{id}/extend", listing.HandleExtend(listings), admin)
	a.Handle(http.MethodPost, "/listings/{id}/archive", listing.HandleArchive(listings), admin)

	if cfg.Sweeper != nil {
		a.Handle(http.MethodPost, "/sweeps", sweep.HandleRun(cfg.Sweeper), admin)
	}

	return a.Router
}

// Handle registers handler under the global middlewares, then the route's
// own ones, then the rate limiter, so that limits are keyed by user when a
// route authenticates.
func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	if a.limit != nil {
		mw = append(mw, a.limit)
	}
	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
