// Package sessionsredisstore caches sessions in redis in front of another
// sessionsrepo.Storer. Each session is a hash keyed "session:{id}" mapping
// column name to the records text encoding; an absent updated_at has no
// field. A set per user indexes the cached ids.
package sessionsredisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/sessions/core/records"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo"
	"github.com/jrazmi/sessions/core/scaffolding/fop"
	"github.com/jrazmi/sessions/infrastructure/redisdb"
	"github.com/jrazmi/sessions/sdk/logger"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a cached session may outlive a change made
// directly in the backing database.
const DefaultTTL = 15 * time.Minute

// Store provides Redis read-through caching for sessions held by a backing store.
type Store struct {
	log     *logger.Logger
	client  *redisdb.Client
	backing sessionsrepo.Storer
	ttl     time.Duration
	prefix  string
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the expiry of cached sessions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithKeyPrefix namespaces every key, e.g. per environment or per test.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// NewStore creates a new Redis session store in front of backing.
func NewStore(log *logger.Logger, client *redisdb.Client, backing sessionsrepo.Storer, opts ...Option) *Store {
	s := &Store{
		log:     log,
		client:  client,
		backing: backing,
		ttl:     DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) sessionKey(id string) string {
	return s.prefix + "session:" + id
}

func (s *Store) userKey(userID uuid.UUID) string {
	return s.prefix + "user:" + userID.String() + ":sessions"
}

func (s *Store) Insert(ctx context.Context, session sessionsrepo.Session) error {
	if err := s.backing.Insert(ctx, session); err != nil {
		return err
	}
	s.put(ctx, session)
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (sessionsrepo.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.sessionKey(id.String())).Result()
	switch {
	case err != nil:
		s.log.WarnContext(ctx, "session cache read", "session_id", id, "error", err)
	case len(fields) > 0:
		session, err := decode(fields)
		if err == nil {
			return session, nil
		}
		s.log.WarnContext(ctx, "session cache decode", "session_id", id, "error", err)
	}

	session, err := s.backing.Get(ctx, id)
	if err != nil {
		return sessionsrepo.Session{}, err
	}
	s.put(ctx, session)
	return session, nil
}

// List is served by the backing store.
func (s *Store) List(ctx context.Context, filter sessionsrepo.SessionFilter, orderBy fop.By, page fop.PageStringCursor) ([]sessionsrepo.Session, error) {
	return s.backing.List(ctx, filter, orderBy, page)
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, set []records.Assignment) error {
	if err := s.backing.Update(ctx, id, set); err != nil {
		return err
	}
	s.evict(ctx, s.sessionKey(id.String()))
	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.backing.Delete(ctx, id); err != nil {
		return err
	}
	// the user index entry expires with the set or is pruned on DeleteByUserID
	s.evict(ctx, s.sessionKey(id.String()))
	return nil
}

func (s *Store) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.backing.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	userKey := s.userKey(userID)
	ids, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		s.log.WarnContext(ctx, "session cache index read", "user_id", userID, "error", err)
		return n, nil
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.sessionKey(id))
	}
	keys = append(keys, userKey)
	s.evict(ctx, keys...)

	return n, nil
}

// put caches session and indexes it under its user. Failures are logged;
// the backing store stays authoritative.
func (s *Store) put(ctx context.Context, session sessionsrepo.Session) {
	fields, err := encode(session)
	if err != nil {
		s.log.WarnContext(ctx, "session cache encode", "session_id", session.ID, "error", err)
		return
	}

	key := s.sessionKey(session.ID.String())
	userKey := s.userKey(session.UserID)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, s.ttl)
		pipe.SAdd(ctx, userKey, session.ID.String())
		pipe.Expire(ctx, userKey, s.ttl)
		return nil
	})
	if err != nil {
		s.log.WarnContext(ctx, "session cache write", "session_id", session.ID, "error", err)
	}
}

func (s *Store) evict(ctx context.Context, keys ...string) {
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.log.WarnContext(ctx, "session cache evict", "keys", keys, "error", err)
	}
}

func encode(session sessionsrepo.Session) (map[string]any, error) {
	text, err := sessionsrepo.Sessions.TextValues(&session)
	if err != nil {
		return nil, err
	}

	cols := sessionsrepo.Sessions.Columns()
	fields := make(map[string]any, len(cols))
	for i, t := range text {
		if t != nil {
			fields[cols[i]] = *t
		}
	}
	return fields, nil
}

func decode(fields map[string]string) (sessionsrepo.Session, error) {
	cols := sessionsrepo.Sessions.Columns()
	text := make([]*string, len(cols))
	for i, c := range cols {
		if v, ok := fields[c]; ok {
			text[i] = &v
		}
	}

	var session sessionsrepo.Session
	if err := sessionsrepo.Sessions.LoadText(&session, text); err != nil {
		return sessionsrepo.Session{}, fmt.Errorf("decode cached session: %w", err)
	}
	return session, nil
}
