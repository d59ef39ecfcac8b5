package mid

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jrazmi/sessions/infrastructure/web"
	"github.com/jrazmi/sessions/sdk/logger"
)

// Telemetry reads the trace id attached by the web handler.
type Telemetry interface {
	GetTraceID(ctx context.Context) string
}

// Logger writes a record when a request starts and when it completes.
func Logger(log *logger.Logger, tel Telemetry) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			start := time.Now()
			traceID := tel.GetTraceID(ctx)

			p := r.URL.Path
			if r.URL.RawQuery != "" {
				p = fmt.Sprintf("%s?%s", p, r.URL.RawQuery)
			}

			log.InfoContext(ctx, "request started", "trace_id", traceID, "method", r.Method, "path", p, "remoteaddr", r.RemoteAddr)

			resp := next(ctx, r)

			status := http.StatusOK
			if s, ok := resp.(interface{ HTTPStatus() int }); ok {
				status = s.HTTPStatus()
			} else if resp == nil {
				status = http.StatusNoContent
			}

			log.InfoContext(ctx, "request completed", "trace_id", traceID, "method", r.Method, "path", p,
				"statuscode", status, "since", time.Since(start).String())

			return resp
		}
	}
}
