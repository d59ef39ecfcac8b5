package web

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jrazmi/sessions/sdk/environment"
)

// WebServer is an http.Server together with the settings it was built from.
// Callers assign Handler before calling ListenAndServe.
type WebServer struct {
	*http.Server
	Config ServerConfig
}

// ServerConfig is read from the environment under the service prefix.
type ServerConfig struct {
	Port            string        `env:"PORT" default:":8080"`
	APIRoute        string        `env:"API_ROUTE" default:"/api/v1"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" default:"10s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"20s"`
}

// ServerOption adjusts the http.Server before it is returned.
type ServerOption func(*http.Server)

// WithErrorLog routes net/http's internal errors to l.
func WithErrorLog(l *log.Logger) ServerOption {
	return func(s *http.Server) {
		s.ErrorLog = l
	}
}

// NewServerFromEnv builds a WebServer from <prefix>_PORT, <prefix>_READ_TIMEOUT and friends.
func NewServerFromEnv(prefix string, opts ...ServerOption) (*WebServer, error) {
	var cfg ServerConfig
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing webserver config: %w", err)
	}
	return NewServer(cfg, opts...), nil
}

// NewServer builds a WebServer from an explicit config.
func NewServer(cfg ServerConfig, opts ...ServerOption) *WebServer {
	srv := &http.Server{
		Addr:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return &WebServer{Server: srv, Config: cfg}
}
