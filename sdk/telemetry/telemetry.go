// Package telemetry carries a per-request trace id through the context.
package telemetry

import (
	"context"

	"github.com/jrazmi/sessions/sdk/cryptids"
)

type telKey int

const (
	traceIDKey telKey = iota + 1
)

// NoTrace is reported when no trace id is attached to the context.
const NoTrace = "--------NOTRACE--------"

// TraceHeader is the request/response header used to propagate trace ids.
const TraceHeader = "X-Trace-Id"

type Telemetry struct{}

// NewTelemetry creates a new telemetry instance
func NewTelemetry() Telemetry {
	return Telemetry{}
}

// SetTraceID attaches a freshly generated trace id to ctx.
func (t Telemetry) SetTraceID(ctx context.Context) context.Context {
	tid, err := cryptids.GenerateID()
	if err != nil {
		return context.WithValue(ctx, traceIDKey, NoTrace)
	}
	return context.WithValue(ctx, traceIDKey, tid)
}

// WithTraceID attaches an existing trace id, e.g. one received from upstream.
func (t Telemetry) WithTraceID(ctx context.Context, id string) context.Context {
	if id == "" {
		return t.SetTraceID(ctx)
	}
	return context.WithValue(ctx, traceIDKey, id)
}

// GetTraceID returns the trace id on ctx, or NoTrace.
func (t Telemetry) GetTraceID(ctx context.Context) string {
	v, ok := ctx.Value(traceIDKey).(string)
	if !ok {
		return NoTrace
	}
	return v
}
