package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failure struct{}

func (failure) Error() string                   { return "failure" }
func (failure) Encode() ([]byte, string, error) { return []byte(`{"error":"failure"}`), "application/json", nil }

func TestRespond(t *testing.T) {
	tests := []struct {
		name       string
		resp       Encoder
		wantStatus int
		wantBody   string
	}{
		{"json default status", &JSONResponse[map[string]string]{Data: map[string]string{"id": "a"}}, http.StatusOK, `{"id":"a"}`},
		{"json explicit status", NewJSONResponseWithStatus([]int{1}, http.StatusCreated), http.StatusCreated, `[1]`},
		{"no content", NewNoContent(), http.StatusNoContent, ""},
		{"bare error", failure{}, http.StatusInternalServerError, `{"error":"failure"}`},
		{"error with status", NewErrorWithStatus("gone", http.StatusNotFound), http.StatusNotFound, `{"error":"gone"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, Respond(context.Background(), w, tt.resp))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestRespondSkips(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, Respond(context.Background(), w, NoResponse{}))
	assert.False(t, w.Flushed)
	assert.Zero(t, w.Body.Len())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w = httptest.NewRecorder()
	err := Respond(ctx, w, NewNoContent())
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
	assert.Zero(t, w.Body.Len())
}

func TestNewServerFromEnv(t *testing.T) {
	t.Setenv("SESSIONS_PORT", ":9090")
	t.Setenv("SESSIONS_WRITE_TIMEOUT", "5s")

	srv, err := NewServerFromEnv("SESSIONS")
	require.NoError(t, err)
	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.WriteTimeout)
	assert.Equal(t, 30*time.Second, srv.ReadTimeout)
	assert.Equal(t, 20*time.Second, srv.Config.ShutdownTimeout)
	assert.Equal(t, "/api/v1", srv.Config.APIRoute)
	assert.Nil(t, srv.ErrorLog)
}
