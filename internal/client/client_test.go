package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionServer is a minimal stand-in for the API: it accepts one login,
// serves a protected endpoint, and counts refresh calls.
type sessionServer struct {
	mu           sync.Mutex
	accessToken  string
	refreshCalls atomic.Int32
	denyRefresh  bool
	denySignup   bool

	// failGate, when set, holds rejected requests until `failGateN` of them
	// have arrived, so concurrent expiries are observed concurrently.
	failGate  chan struct{}
	failGateN atomic.Int32
}

func (s *sessionServer) awaitFailGate() {
	if s.failGate == nil {
		return
	}
	if s.failGateN.Add(-1) == 0 {
		close(s.failGate)
	}
	<-s.failGate
}

func (s *sessionServer) currentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accessToken
}

func (s *sessionServer) rotate(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *sessionServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		if s.denySignup {
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   map[string]string{"code": "FORBIDDEN_DOMAIN", "message": "Email domain not allowed"},
			})

			return
		}

		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Signup successful"})
	})

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		s.rotate("access-1")
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "refresh-1", Path: "/", HttpOnly: true})
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Login successful", "accessToken": "access-1"})
	})

	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		s.refreshCalls.Add(1)

		cookie, err := r.Cookie("refreshToken")
		if s.denyRefresh || err != nil || cookie.Value == "" {
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   map[string]string{"code": "REFRESH_NOT_RECOGNIZED", "message": "Refresh token not recognized"},
			})

			return
		}

		next := "access-" + cookie.Value
		s.rotate(next)
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": next})
	})

	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.currentToken() {
			s.awaitFailGate()
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   map[string]string{"code": "INVALID_TOKEN", "message": "Invalid or expired token"},
			})

			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{"profile": map[string]string{"name": "Ananya"}})
	})

	return mux
}

func newTestClient(t *testing.T, srv *sessionServer) (*Client, *httptest.Server) {
	t.Helper()

	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)

	c, err := New(ts.URL, discardLogger())
	require.NoError(t, err)

	return c, ts
}

func TestClient_LoginStoresToken(t *testing.T) {
	srv := &sessionServer{}
	c, _ := newTestClient(t, srv)

	require.NoError(t, c.Login(context.Background(), "ananya.sharma2022@rishihood.edu.in", "secret123"))
	assert.Equal(t, "access-1", c.AccessToken())
}

func TestClient_ExpiredTokenRefreshesAndReplays(t *testing.T) {
	srv := &sessionServer{}
	c, _ := newTestClient(t, srv)

	require.NoError(t, c.Login(context.Background(), "ananya.sharma2022@rishihood.edu.in", "secret123"))

	// Expire the access token server-side; the refresh cookie stays valid.
	srv.rotate("access-refresh-1")

	var resp struct {
		Profile map[string]string `json:"profile"`
	}
	require.NoError(t, c.Get(context.Background(), "/api/auth/me", &resp))
	assert.Equal(t, "Ananya", resp.Profile["name"])
	assert.Equal(t, int32(1), srv.refreshCalls.Load())
	assert.Equal(t, "access-refresh-1", c.AccessToken())
}

func TestClient_ConcurrentExpiriesRefreshOnce(t *testing.T) {
	srv := &sessionServer{}
	c, _ := newTestClient(t, srv)

	require.NoError(t, c.Login(context.Background(), "ananya.sharma2022@rishihood.edu.in", "secret123"))
	srv.rotate("access-refresh-1")

	const concurrency = 8

	srv.failGate = make(chan struct{})
	srv.failGateN.Store(concurrency)

	var wg sync.WaitGroup
	errs := make([]error, concurrency)
	for i := range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var resp struct {
				Profile map[string]string `json:"profile"`
			}
			errs[i] = c.Get(context.Background(), "/api/auth/me", &resp)
		}()
	}
	wg.Wait()

	for i := range concurrency {
		require.NoError(t, errs[i])
	}
	assert.Equal(t, int32(1), srv.refreshCalls.Load())
}

func TestClient_RevokedSessionFailsWithoutLoop(t *testing.T) {
	srv := &sessionServer{}
	c, _ := newTestClient(t, srv)

	require.NoError(t, c.Login(context.Background(), "ananya.sharma2022@rishihood.edu.in", "secret123"))

	// Simulate a server-side revocation: the access token is stale and the
	// refresh endpoint rejects the cookie.
	srv.rotate("somebody-else")
	srv.denyRefresh = true

	err := c.Get(context.Background(), "/api/auth/me", nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), srv.refreshCalls.Load(), "a rejected refresh must not retry")
	assert.Empty(t, c.AccessToken(), "a rejected refresh clears the session")

	// The caller sees the rejection of their own request, not the refresh's.
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_TOKEN", apiErr.Code)
}

func TestClient_SignupRejectionBypassesRefresh(t *testing.T) {
	srv := &sessionServer{denySignup: true}
	c, _ := newTestClient(t, srv)

	err := c.Signup(context.Background(), "Ananya Sharma", "ananya@gmail.com", "secret123")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "FORBIDDEN_DOMAIN", apiErr.Code)
	assert.Equal(t, int32(0), srv.refreshCalls.Load(), "public routes never trigger a refresh")
}
