package mid

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/jrazmi/sessions/bridge/scaffolding/errs"
	"github.com/jrazmi/sessions/infrastructure/web"
)

// Panics recovers from panics and converts the panic to an error so it is
// reported and handled by the Errors middleware.
func Panics() web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) (resp web.Encoder) {
			defer func() {
				if rec := recover(); rec != nil {
					trace := debug.Stack()
					resp = errs.Newf(errs.InternalOnlyLog, "PANIC [%v] TRACE[%s]", rec, string(trace))
				}
			}()

			return next(ctx, r)
		}
	}
}
