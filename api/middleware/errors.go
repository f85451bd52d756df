package middleware

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/course-listing/api/web"
	"github.com/irsalhamdi/course-listing/api/weberr"
	"github.com/sirupsen/logrus"
)

// Errors logs the error returned by the handler and writes its response.
// Errors without a response become a bare 500.
func Errors(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			err := weberr.Translate(handler(ctx, w, r))
			if err == nil {
				return nil
			}

			fields := map[string]interface{}{
				"req_id":  ContextRequestID(ctx),
				"message": err,
			}
			if f, ok := weberr.Fields(err); ok {
				for k, v := range f {
					fields[k] = v
				}
			}

			if body, code, ok := weberr.Response(err); ok {
				if code >= http.StatusInternalServerError {
					log.WithFields(logrus.Fields(fields)).Error("ERROR")
				} else {
					log.WithFields(logrus.Fields(fields)).Info("request failed")
				}
				return web.Respond(ctx, w, body, code)
			}

			log.WithFields(logrus.Fields(fields)).Error("ERROR")

			er := weberr.ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)}
			return web.Respond(ctx, w, er, http.StatusInternalServerError)
		}
		return h
	}
	return m
}
