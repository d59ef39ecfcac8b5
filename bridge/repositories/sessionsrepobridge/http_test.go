package sessionsrepobridge_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/sessions/bridge/repositories/sessionsrepobridge"
	"github.com/jrazmi/sessions/bridge/scaffolding/mid"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo/stores/sessionssqlitestore"
	"github.com/jrazmi/sessions/core/scaffolding/fop"
	"github.com/jrazmi/sessions/infrastructure/sqlitedb"
	"github.com/jrazmi/sessions/infrastructure/web"
	"github.com/jrazmi/sessions/sdk/logger"
	"github.com/jrazmi/sessions/sdk/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordBody struct {
	Record sessionsrepobridge.Session `json:"record"`
}

type pageBody struct {
	Records  []sessionsrepobridge.Session `json:"records"`
	PageInfo fop.PageInfoStringCursor     `json:"pageInfo"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sqlitedb.InMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := sessionssqlitestore.NewStore(logger.NewDiscard(), db)
	require.NoError(t, store.EnsureSchema(context.Background()))

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := sessionsrepo.NewRepository(logger.NewDiscard(), store, sessionsrepo.WithClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	}))

	log := logger.NewDiscard()
	tel := telemetry.NewTelemetry()
	handler := web.NewWebHandler(web.HandlerOptions{CORSOrigins: []string{"*"}},
		web.WithLogging(log),
		web.WithTelemetry(tel),
		web.WithGlobalMiddleware(mid.Logger(log, tel), mid.Errors(log), mid.Panics()),
	)
	sessionsrepobridge.AddHttpRoutes(handler.Group("/api/v1"), sessionsrepobridge.Config{
		Log:        log,
		Repository: repo,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestSessionLifecycle(t *testing.T) {
	srv := newServer(t)
	api := srv.URL + "/api/v1"
	userID := uuid.NewString()

	resp := do(t, http.MethodPost, api+"/sessions", map[string]string{"user_id": userID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(web.TraceHeader))
	issued := decode[recordBody](t, resp).Record
	assert.Equal(t, userID, issued.UserID)
	assert.Equal(t, "2024-01-01T00:00:01Z", issued.CreatedAt)
	assert.Empty(t, issued.UpdatedAt)

	resp = do(t, http.MethodGet, api+"/sessions/"+issued.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, issued, decode[recordBody](t, resp).Record)

	resp = do(t, http.MethodPut, api+"/sessions/"+issued.ID+"/touch", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	touched := decode[recordBody](t, resp).Record
	assert.Equal(t, "2024-01-01T00:00:02Z", touched.UpdatedAt)
	assert.Equal(t, issued.CreatedAt, touched.CreatedAt)

	resp = do(t, http.MethodDelete, api+"/sessions/"+issued.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, api+"/sessions/"+issued.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", decode[errorBody](t, resp).Code)
}

func TestUserSessions(t *testing.T) {
	srv := newServer(t)
	api := srv.URL + "/api/v1"
	userID := uuid.NewString()

	for range 3 {
		resp := do(t, http.MethodPost, api+"/sessions", map[string]string{"user_id": userID})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := do(t, http.MethodPost, api+"/sessions", map[string]string{"user_id": uuid.NewString()})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodGet, api+"/users/"+userID+"/sessions?limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decode[pageBody](t, resp)
	require.Len(t, first.Records, 2)
	assert.True(t, first.PageInfo.HasNext)
	require.NotEmpty(t, first.PageInfo.NextCursor)

	resp = do(t, http.MethodGet, api+"/users/"+userID+"/sessions?limit=2&cursor="+first.PageInfo.NextCursor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decode[pageBody](t, resp)
	require.Len(t, second.Records, 1)
	assert.False(t, second.PageInfo.HasNext)
	assert.Greater(t, first.Records[1].CreatedAt, second.Records[0].CreatedAt)

	resp = do(t, http.MethodGet, api+"/sessions?user_id="+userID+"&order=created_at,asc", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := decode[pageBody](t, resp)
	require.Len(t, all.Records, 3)
	assert.Equal(t, second.Records[0].ID, all.Records[0].ID)

	resp = do(t, http.MethodDelete, api+"/users/"+userID+"/sessions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, decode[map[string]int64](t, resp)["count"])

	resp = do(t, http.MethodGet, api+"/users/"+userID+"/sessions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[pageBody](t, resp).Records)
}

func TestBadRequests(t *testing.T) {
	srv := newServer(t)
	api := srv.URL + "/api/v1"

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{name: "missing user", method: http.MethodPost, path: "/sessions", body: map[string]string{}, status: http.StatusBadRequest},
		{name: "bad user", method: http.MethodPost, path: "/sessions", body: map[string]string{"user_id": "nope"}, status: http.StatusBadRequest},
		{name: "empty body", method: http.MethodPost, path: "/sessions", status: http.StatusBadRequest},
		{name: "bad id", method: http.MethodGet, path: "/sessions/123", status: http.StatusBadRequest},
		{name: "unknown id", method: http.MethodPut, path: "/sessions/" + uuid.NewString() + "/touch", status: http.StatusNotFound},
		{name: "delete unknown", method: http.MethodDelete, path: "/sessions/" + uuid.NewString(), status: http.StatusNotFound},
		{name: "bad limit", method: http.MethodGet, path: "/sessions?limit=1000", status: http.StatusBadRequest},
		{name: "bad cursor", method: http.MethodGet, path: "/sessions?cursor=%25%25", status: http.StatusBadRequest},
		{name: "bad order", method: http.MethodGet, path: "/sessions?order=user_id", status: http.StatusBadRequest},
		{name: "bad filter", method: http.MethodGet, path: "/sessions?created_after=someday", status: http.StatusBadRequest},
		{name: "no route", method: http.MethodGet, path: "/nothing", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, api+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))
		})
	}
}

func TestPreflight(t *testing.T) {
	srv := newServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/sessions", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
