// Package mid holds the middleware wrapped around every session route.
package mid

import (
	"context"
	"errors"
	"net/http"
	"path"

	"github.com/jrazmi/sessions/bridge/scaffolding/errs"
	"github.com/jrazmi/sessions/infrastructure/web"
	"github.com/jrazmi/sessions/sdk/logger"
)

var errInternal = errs.Newf(errs.Internal, "Internal Server Error")

// Errors logs any error a handler returns and converts it to an *errs.Error.
// Errors without an application code, and InternalOnlyLog errors, reach the
// client as a generic 500.
func Errors(log *logger.Logger) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			resp := next(ctx, r)
			err, ok := resp.(error)
			if !ok {
				return resp
			}

			appErr := errInternal
			errors.As(err, &appErr)

			log.ErrorContext(ctx, "request failed",
				"err", err,
				"code", appErr.Code.String(),
				"method", r.Method,
				"path", r.URL.Path,
				"source_err_file", path.Base(appErr.FileName),
				"source_err_func", path.Base(appErr.FuncName))

			if appErr.Code == errs.InternalOnlyLog {
				return errInternal
			}
			return appErr
		}
	}
}
