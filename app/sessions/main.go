package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jrazmi/sessions/app/sessions/config"
	"github.com/jrazmi/sessions/bridge/repositories/sessionsrepobridge"
	"github.com/jrazmi/sessions/bridge/scaffolding/mid"
	"github.com/jrazmi/sessions/infrastructure/web"
	"github.com/jrazmi/sessions/sdk/environment"
	"github.com/jrazmi/sessions/sdk/logger"
)

var build = "develop"
var appName = "SESSIONS"

func main() {
	environment.LoadEnv()

	log, err := logger.NewFromEnv(appName, logger.WithAttrs("service", appName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := run(ctx, log); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	// DATA INFRASTRUCTURE
	// ==============================================================================
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	cfg, err := config.Open(openCtx, appName, build, log)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		log.InfoContext(ctx, "shutdown", "status", "closing datastores")
		cfg.Close()
	}()

	// WEB
	// ==============================================================================
	server, err := web.NewServerFromEnv(appName, web.WithErrorLog(logger.NewStdLogger(log, slog.LevelError)))
	if err != nil {
		return fmt.Errorf("webserver: %w", err)
	}

	handler, err := webHandler(cfg, server.Config)
	if err != nil {
		return err
	}
	server.Handler = handler

	serverErrors := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		defer log.InfoContext(ctx, "shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, server.Config.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func webHandler(cfg *config.Sessions, srv web.ServerConfig) (http.Handler, error) {
	app, err := web.NewWebHandlerFromEnv(appName,
		web.WithLogging(cfg.Logger),
		web.WithTelemetry(cfg.Telemetry),
		web.WithGlobalMiddleware(
			mid.Logger(cfg.Logger, cfg.Telemetry),
			mid.Errors(cfg.Logger),
			mid.Panics(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("web handler: %w", err)
	}

	app.GET("/health", health(cfg))

	api := app.Group(srv.APIRoute)
	sessionsrepobridge.AddHttpRoutes(api, sessionsrepobridge.Config{
		Log:        cfg.Logger,
		Repository: cfg.Repositories.Sessions,
	})

	return app, nil
}

type healthStatus struct {
	Status   string            `json:"status"`
	Build    string            `json:"build"`
	Services map[string]string `json:"services"`
}

func health(cfg *config.Sessions) web.HandlerFunc {
	return func(ctx context.Context, r *http.Request) web.Encoder {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		resp := healthStatus{Status: "ok", Build: cfg.Build, Services: make(map[string]string, len(cfg.Checks))}
		status := http.StatusOK
		for name, check := range cfg.Checks {
			if err := check(ctx); err != nil {
				cfg.Logger.WarnContext(ctx, "health", "service", name, "error", err)
				resp.Services[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Services[name] = "ok"
		}

		return &web.JSONResponse[healthStatus]{Data: resp, Status: status}
	}
}
