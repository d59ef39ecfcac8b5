package sessionsredisstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/sessions/core/records"
	"github.com/jrazmi/sessions/core/repositories"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo/stores/sessionsredisstore"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo/stores/sessionssqlitestore"
	"github.com/jrazmi/sessions/infrastructure/redisdb"
	"github.com/jrazmi/sessions/infrastructure/sqlitedb"
	"github.com/jrazmi/sessions/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sessionID = uuid.MustParse("3fa85f64-5717-4562-b3fc-2c963f66afa6")
	userID    = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	created   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated   = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
)

func TestHashCodec(t *testing.T) {
	full := sessionsrepo.NewSession(sessionID, userID, created, &updated)

	fields, err := sessionsredisstore.Encode(full)
	require.NoError(t, err)
	assert.Equal(t, "3fa85f64-5717-4562-b3fc-2c963f66afa6", fields["id"])
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", fields["user_id"])
	assert.Len(t, fields, 4)

	raw := make(map[string]string, len(fields))
	for k, v := range fields {
		raw[k] = v.(string)
	}
	back, err := sessionsredisstore.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, full.Values(), back.Values())

	absent := sessionsrepo.NewSession(sessionID, userID, created, nil)
	fields, err = sessionsredisstore.Encode(absent)
	require.NoError(t, err)
	assert.NotContains(t, fields, "updated_at")

	delete(raw, "updated_at")
	back, err = sessionsredisstore.Decode(raw)
	require.NoError(t, err)
	assert.Nil(t, back.UpdatedAt)

	raw["created_at"] = "yesterday"
	_, err = sessionsredisstore.Decode(raw)
	assert.ErrorIs(t, err, records.ErrTypeMismatch)
}

func newStore(t *testing.T) (*sessionsredisstore.Store, *redisdb.Client, *sessionssqlitestore.Store) {
	t.Helper()

	addr := os.Getenv("SESSIONS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SESSIONS_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := redisdb.NewClient(ctx, "redis://"+addr)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	db, err := sqlitedb.InMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	backing := sessionssqlitestore.NewStore(logger.NewDiscard(), db)
	require.NoError(t, backing.EnsureSchema(ctx))

	prefix := "test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		keys, _ := client.Keys(context.Background(), prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(context.Background(), keys...)
		}
	})

	store := sessionsredisstore.NewStore(logger.NewDiscard(), client, backing,
		sessionsredisstore.WithKeyPrefix(prefix),
		sessionsredisstore.WithTTL(time.Minute),
	)
	return store, client, backing
}

func TestStoreReadThrough(t *testing.T) {
	store, client, backing := newStore(t)
	ctx := context.Background()

	s := sessionsrepo.NewSession(sessionID, userID, created, nil)
	require.NoError(t, store.Insert(ctx, s))

	// remove from the backing store; the cached copy still answers
	require.NoError(t, backing.Delete(ctx, sessionID))
	got, err := store.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, s.Values(), got.Values())

	ttl, err := client.TTL(ctx, keyFor(t, client, sessionID)).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
}

func TestStoreInvalidates(t *testing.T) {
	store, _, _ := newStore(t)
	ctx := context.Background()

	repo := sessionsrepo.NewRepository(logger.NewDiscard(), store, sessionsrepo.WithClock(func() time.Time { return updated }))

	s, err := repo.Create(ctx, sessionsrepo.NewSession(sessionID, userID, created, nil))
	require.NoError(t, err)

	_, err = repo.Touch(ctx, s.ID)
	require.NoError(t, err)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, updated, *got.UpdatedAt)

	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestStoreDeleteByUserID(t *testing.T) {
	store, _, backing := newStore(t)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, store.Insert(ctx, sessionsrepo.NewSession(uuid.New(), userID, created, nil)))
	}

	n, err := store.DeleteByUserID(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = backing.DeleteByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func keyFor(t *testing.T, client *redisdb.Client, id uuid.UUID) string {
	t.Helper()
	keys, err := client.Keys(context.Background(), "*session:"+id.String()).Result()
	require.NoError(t, err)
	require.NotEmpty(t, keys)
	return keys[0]
}
