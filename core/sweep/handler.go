package sweep

import (
	"context"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/course-listing/api/web"
	"github.com/sirupsen/logrus"
)

// HandleRun runs one sweep immediately.
func HandleRun(s *Sweeper) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		res, err := s.Run(ctx)
		if err != nil {
			return fmt.Errorf("running sweep: %w", err)
		}

		s.log.WithFields(logrus.Fields{
			"expiring": res.Expiring,
			"expired":  res.Expired,
		}).Info("sweep triggered")

		return web.Respond(ctx, w, res, http.StatusOK)
	}
}
