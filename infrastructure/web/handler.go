package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jrazmi/sessions/sdk/environment"
	"github.com/jrazmi/sessions/sdk/logger"
)

// TraceHeader carries the trace id in requests and responses.
const TraceHeader = "X-Trace-Id"

type WebHandler struct {
	router    chi.Router
	log       *logger.Logger
	telemetry Telemetry

	corsOrigins    []string
	defaultHeaders map[string]string

	globalMiddleware []Middleware
}

// HandlerOptions is the exportable configuration struct
type HandlerOptions struct {
	CORSOrigins []string `env:"CORS_ORIGINS" default:"*" separator:","`
}

type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	log              *logger.Logger
	telemetry        Telemetry
	corsOrigins      []string
	defaultHeaders   map[string]string
	globalMiddleware []Middleware
}

// WithLogging sets the logger
func WithLogging(log *logger.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.log = log
	}
}

// WithTelemetry sets the telemetry provider
func WithTelemetry(tel Telemetry) HandlerOption {
	return func(o *handlerOptions) {
		o.telemetry = tel
	}
}

// WithCORS sets CORS origins
func WithCORS(origins []string) HandlerOption {
	return func(o *handlerOptions) {
		o.corsOrigins = origins
	}
}

// WithDefaultHeaders sets headers written on every response
func WithDefaultHeaders(headers map[string]string) HandlerOption {
	return func(o *handlerOptions) {
		if o.defaultHeaders == nil {
			o.defaultHeaders = make(map[string]string)
		}
		for k, v := range headers {
			o.defaultHeaders[k] = v
		}
	}
}

// WithGlobalMiddleware adds global middleware
func WithGlobalMiddleware(middleware ...Middleware) HandlerOption {
	return func(o *handlerOptions) {
		o.globalMiddleware = append(o.globalMiddleware, middleware...)
	}
}

// NewWebHandlerFromEnv creates a new WebHandler from environment variables
func NewWebHandlerFromEnv(prefix string, opts ...HandlerOption) (*WebHandler, error) {
	var options HandlerOptions
	if err := environment.ParseEnvTags(prefix, &options); err != nil {
		return nil, fmt.Errorf("parsing webhandler config: %w", err)
	}
	return NewWebHandler(options, opts...), nil
}

// NewWebHandler creates a new WebHandler with given config and applies options
func NewWebHandler(cfg HandlerOptions, opts ...HandlerOption) *WebHandler {
	internalOpts := &handlerOptions{
		corsOrigins:    cfg.CORSOrigins,
		defaultHeaders: make(map[string]string),
	}

	for _, opt := range opts {
		opt(internalOpts)
	}

	if internalOpts.log == nil {
		internalOpts.log = logger.NewDiscard()
	}

	router := chi.NewRouter()
	router.Use(chimw.RealIP, chimw.CleanPath)

	handler := &WebHandler{
		router:           router,
		log:              internalOpts.log,
		telemetry:        internalOpts.telemetry,
		corsOrigins:      internalOpts.corsOrigins,
		defaultHeaders:   internalOpts.defaultHeaders,
		globalMiddleware: internalOpts.globalMiddleware,
	}

	// CORS runs before every other middleware
	if len(handler.corsOrigins) > 0 {
		handler.globalMiddleware = append([]Middleware{handler.corsMiddleware()}, handler.globalMiddleware...)
	}

	router.NotFound(handler.wrap(func(_ context.Context, r *http.Request) Encoder {
		return NewErrorWithStatus(fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path), http.StatusNotFound)
	}))
	router.MethodNotAllowed(handler.wrap(func(_ context.Context, r *http.Request) Encoder {
		return NewErrorWithStatus(fmt.Sprintf("method %s not allowed", r.Method), http.StatusMethodNotAllowed)
	}))

	return handler
}

// Handle registers handler for method and path. Path parameters use chi
// syntax: /sessions/{id}.
func (a *WebHandler) Handle(method, path string, handler HandlerFunc, middleware ...Middleware) {
	a.router.Method(strings.ToUpper(method), path, a.wrap(handler, middleware...))

	// preflight requests need a route to reach the CORS middleware
	if len(a.corsOrigins) > 0 && method != http.MethodOptions {
		a.router.Method(http.MethodOptions, path, a.wrap(func(context.Context, *http.Request) Encoder {
			return NoResponse{}
		}))
	}
}

// wrap adapts a HandlerFunc with the global and route middleware to an
// http.HandlerFunc.
func (a *WebHandler) wrap(handler HandlerFunc, middleware ...Middleware) http.HandlerFunc {
	finalHandler := a.buildHandlerChain(handler, middleware...)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if a.telemetry != nil {
			ctx = a.telemetry.WithTraceID(ctx, r.Header.Get(TraceHeader))
			w.Header().Set(TraceHeader, a.telemetry.GetTraceID(ctx))
		}
		ctx = setWriter(ctx, w)
		for k, v := range a.defaultHeaders {
			w.Header().Set(k, v)
		}

		resp := finalHandler(ctx, r.WithContext(ctx))

		if err := Respond(ctx, w, resp); err != nil {
			a.log.ErrorContext(ctx, "respond error", "error", err)
		}
	}
}

// HandleRaw registers a plain http.Handler. Global middleware is not applied.
func (a *WebHandler) HandleRaw(pattern string, handler http.Handler) {
	a.router.Handle(pattern, handler)
}

func (a *WebHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}
