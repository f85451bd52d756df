package api

import (
	"context"
	"net/http"
	"time"

	"github.com/irsalhamdi/course-listing/api/web"
	"github.com/irsalhamdi/course-listing/database"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// handleReadiness reports whether the service can reach its database.
func handleReadiness(log logrus.FieldLogger, db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()

		status := struct {
			Status string `json:"status"`
		}{Status: "ok"}
		code := http.StatusOK

		if err := database.StatusCheck(ctx, db); err != nil {
			log.WithError(err).Warn("readiness check failed")
			status.Status = "db not ready"
			code = http.StatusServiceUnavailable
		}

		return web.Respond(ctx, w, status, code)
	}
}
