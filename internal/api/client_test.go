package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mirasocial/mira-client/internal/errs"
	"github.com/mirasocial/mira-client/internal/model"
)

// memState is an in-memory SessionStore.
type memState struct {
	mu   sync.Mutex
	sess *model.Session
}

func (s *memState) Session() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

func (s *memState) SetSession(sess *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	return nil
}

func (s *memState) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}

type backendCounts struct {
	mu      sync.Mutex
	things  int
	refresh int
}

// newBackend serves /things (200 only with the accepted token) and
// /auth/refresh (rotates to refreshToken, or 401 when refreshFails).
func newBackend(t *testing.T, accept, refreshToken string, refreshFails bool) (*httptest.Server, *backendCounts) {
	t.Helper()
	counts := &backendCounts{}
	mux := http.NewServeMux()
	mux.HandleFunc("/things", func(w http.ResponseWriter, r *http.Request) {
		counts.mu.Lock()
		counts.things++
		counts.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer "+accept {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		counts.mu.Lock()
		counts.refresh++
		counts.mu.Unlock()
		if refreshFails {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(model.AuthResponse{
			User:  model.User{ID: "u1", Username: "ada"},
			Token: refreshToken,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, counts
}

func TestDoRefreshesOnceAndReplays(t *testing.T) {
	srv, counts := newBackend(t, "fresh", "fresh", false)
	state := &memState{sess: &model.Session{AuthToken: "stale"}}
	c := New(srv.URL, state, zap.NewNop())

	var out map[string]string
	err := c.Do(context.Background(), http.MethodGet, "/things", nil, &out)
	require.NoError(t, err)
	require.Equal(t, "yes", out["ok"])

	require.Equal(t, 2, counts.things)  // original + replay
	require.Equal(t, 1, counts.refresh) // exactly one refresh
	require.Equal(t, "fresh", state.Session().AuthToken)
}

func TestDoSecondUnauthorizedClearsSession(t *testing.T) {
	// Backend never accepts, so the replay 401s too.
	srv, counts := newBackend(t, "never", "fresh", false)
	state := &memState{sess: &model.Session{AuthToken: "stale"}}
	c := New(srv.URL, state, zap.NewNop())

	loggedOut := false
	c.OnForcedLogout(func() { loggedOut = true })

	err := c.Do(context.Background(), http.MethodGet, "/things", nil, nil)
	require.ErrorIs(t, err, errs.ErrSessionExpired)
	require.Nil(t, state.Session())
	require.True(t, loggedOut)

	require.Equal(t, 2, counts.things)  // no third attempt
	require.Equal(t, 1, counts.refresh) // no second refresh
}

func TestDoRefreshFailureClearsSession(t *testing.T) {
	srv, counts := newBackend(t, "never", "", true)
	state := &memState{sess: &model.Session{AuthToken: "stale"}}
	c := New(srv.URL, state, zap.NewNop())

	err := c.Do(context.Background(), http.MethodGet, "/things", nil, nil)
	require.ErrorIs(t, err, errs.ErrSessionExpired)
	require.Nil(t, state.Session())
	require.Equal(t, 1, counts.things)
	require.Equal(t, 1, counts.refresh)
}

func TestDoWithoutSession(t *testing.T) {
	srv, _ := newBackend(t, "x", "x", false)
	c := New(srv.URL, &memState{}, zap.NewNop())

	err := c.Do(context.Background(), http.MethodGet, "/things", nil, nil)
	require.ErrorIs(t, err, errs.ErrNotAuthenticated)
}

func TestDoWrapsBackendErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}))
	t.Cleanup(srv.Close)

	state := &memState{sess: &model.Session{AuthToken: "tok"}}
	c := New(srv.URL, state, zap.NewNop())

	err := c.Do(context.Background(), http.MethodGet, "/things", nil, nil)
	require.True(t, errs.IsStatus(err, http.StatusTeapot))
}

func TestLoginStoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var req model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(model.AuthResponse{
			User:  model.User{ID: "u1", Username: "ada", Email: req.Email},
			Token: "tok-1",
		})
	}))
	t.Cleanup(srv.Close)

	state := &memState{}
	c := New(srv.URL, state, zap.NewNop())

	sess, err := c.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok-1", sess.AuthToken)
	require.Equal(t, "ada", state.Session().User.Username)

	_, err = c.Login(context.Background(), "ada@example.com", "wrong")
	require.ErrorIs(t, err, errs.ErrAuthenticationFailed)
}
