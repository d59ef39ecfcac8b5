// Package config wires the session repository onto the configured stores.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jrazmi/sessions/core/repositories/sessionsrepo"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo/stores/sessionspgxstore"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo/stores/sessionsredisstore"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo/stores/sessionssqlitestore"
	"github.com/jrazmi/sessions/infrastructure/postgresdb"
	"github.com/jrazmi/sessions/infrastructure/redisdb"
	"github.com/jrazmi/sessions/infrastructure/sqlitedb"
	"github.com/jrazmi/sessions/sdk/environment"
	"github.com/jrazmi/sessions/sdk/logger"
	"github.com/jrazmi/sessions/sdk/telemetry"
)

// Supported storage backends.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// StorageOptions selects the session store.
type StorageOptions struct {
	Backend  string        `env:"STORE" default:"postgres"`
	Cache    bool          `env:"CACHE_ENABLED" default:"false"`
	CacheTTL time.Duration `env:"CACHE_TTL" default:"15m"`
	CacheKey string        `env:"CACHE_KEY_PREFIX" default:""`

	// Bootstrap creates the session table on startup when it is missing.
	Bootstrap bool `env:"BOOTSTRAP" default:"true"`
}

// Repositories holds the repositories of this service.
type Repositories struct {
	Sessions *sessionsrepo.Repository
}

// Health reports whether a backing service is reachable.
type Health func(ctx context.Context) error

// Sessions is the overall configuration for the sessions service.
type Sessions struct {
	Build     string
	Logger    *logger.Logger
	Telemetry telemetry.Telemetry

	Repositories Repositories
	Storage      StorageOptions

	// Checks are the readiness probes of every opened datastore, by name.
	Checks map[string]Health

	closers   []func()
	bootstrap func(ctx context.Context) error
}

// Bootstrap creates the session table and its indexes in the configured
// backend. It is idempotent.
func (s *Sessions) Bootstrap(ctx context.Context) error {
	if s.bootstrap == nil {
		return nil
	}
	return s.bootstrap(ctx)
}

// Close releases every datastore opened by Open, last opened first.
func (s *Sessions) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Open reads <prefix>_STORE and friends, connects the configured
// datastores and builds the repositories on top of them.
func Open(ctx context.Context, prefix string, build string, log *logger.Logger) (*Sessions, error) {
	var storage StorageOptions
	if err := environment.ParseEnvTags(prefix, &storage); err != nil {
		return nil, fmt.Errorf("parsing storage config: %w", err)
	}

	cfg := &Sessions{
		Build:     build,
		Logger:    log,
		Telemetry: telemetry.NewTelemetry(),
		Storage:   storage,
		Checks:    make(map[string]Health),
	}

	store, err := cfg.openStore(ctx, prefix)
	if err != nil {
		cfg.Close()
		return nil, err
	}

	if storage.Bootstrap {
		if err := cfg.Bootstrap(ctx); err != nil {
			cfg.Close()
			return nil, fmt.Errorf("bootstrapping %s: %w", storage.Backend, err)
		}
	}

	if storage.Cache {
		client, err := redisdb.NewFromEnv(ctx, prefix)
		if err != nil {
			cfg.Close()
			return nil, fmt.Errorf("configuring redis support: %w", err)
		}
		cfg.closers = append(cfg.closers, func() { client.Close() })
		cfg.Checks["redis"] = func(ctx context.Context) error { return redisdb.StatusCheck(ctx, client) }

		store = sessionsredisstore.NewStore(log, client, store,
			sessionsredisstore.WithTTL(storage.CacheTTL),
			sessionsredisstore.WithKeyPrefix(storage.CacheKey),
		)
		log.InfoContext(ctx, "init", "service", "redis", "ttl", storage.CacheTTL.String())
	}

	cfg.Repositories.Sessions = sessionsrepo.NewRepository(log, store)
	return cfg, nil
}

func (s *Sessions) openStore(ctx context.Context, prefix string) (sessionsrepo.Storer, error) {
	switch s.Storage.Backend {
	case BackendPostgres:
		pool, err := postgresdb.NewFromEnv(prefix, postgresdb.WithLogger(s.Logger))
		if err != nil {
			return nil, fmt.Errorf("configuring postgres support: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		s.Checks["postgres"] = func(ctx context.Context) error { return postgresdb.StatusCheck(ctx, pool) }
		s.Logger.InfoContext(ctx, "init", "service", "postgres")

		store, err := sessionspgxstore.NewStore(s.Logger, pool)
		if err != nil {
			return nil, err
		}
		s.bootstrap = store.EnsureSchema
		return store, nil

	case BackendSQLite:
		db, err := sqlitedb.NewFromEnv(prefix)
		if err != nil {
			return nil, fmt.Errorf("configuring sqlite support: %w", err)
		}
		s.closers = append(s.closers, func() { db.Close() })
		s.Checks["sqlite"] = func(ctx context.Context) error { return sqlitedb.StatusCheck(ctx, db) }
		s.Logger.InfoContext(ctx, "init", "service", "sqlite")

		store := sessionssqlitestore.NewStore(s.Logger, db)
		s.bootstrap = store.EnsureSchema
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store %q, want %s or %s", s.Storage.Backend, BackendPostgres, BackendSQLite)
	}
}
