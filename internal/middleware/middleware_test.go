package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flock/internal/auth"
	"flock/internal/models"
	"flock/internal/repo"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestRequestIDPropagatesClientValue(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "client-supplied-id", seen)
	assert.Equal(t, "client-supplied-id", w.Header().Get(RequestIDHeader))
}

func TestRateLimitReturns429AfterBurst(t *testing.T) {
	h := RateLimit(1, 2)(okHandler())

	do := func() int {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}

func TestRateLimitIsPerIP(t *testing.T) {
	h := RateLimit(1, 1)(okHandler())

	do := func(addr string) int {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:5001")) // тот же IP, другой порт
	assert.Equal(t, http.StatusOK, do("10.0.0.2:5000"))
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "127.0.0.1:9999"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "127.0.0.1", clientIP(req))
}

type loaderStub struct {
	accounts map[string]*models.Account
}

func (s *loaderStub) FindByID(_ context.Context, id string) (*models.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return a, nil
}

func TestAuthMiddleware(t *testing.T) {
	tokens, err := auth.NewTokenService("mw-access-secret", "mw-refresh-secret")
	require.NoError(t, err)

	active := &models.Account{ID: "acc-1", Email: "a@b.org", Role: models.RoleMember, Active: true}
	inactive := &models.Account{ID: "acc-2", Email: "c@d.org", Role: models.RoleMember, Active: false}
	store := &loaderStub{accounts: map[string]*models.Account{
		active.ID:   active,
		inactive.ID: inactive,
	}}

	var fromCtx *models.Account
	h := Auth(tokens, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx, _ = auth.AccountFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	do := func(authz string) int {
		req := httptest.NewRequest("GET", "/api/members", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("valid token", func(t *testing.T) {
		access, err := tokens.IssueAccess(active.ID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, do("Bearer "+access))
		require.NotNil(t, fromCtx)
		assert.Equal(t, active.ID, fromCtx.ID)
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(""))
	})

	t.Run("malformed token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("Bearer garbage"))
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		refresh, err := tokens.IssueRefresh(active.ID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, do("Bearer "+refresh))
	})

	t.Run("unknown account", func(t *testing.T) {
		access, err := tokens.IssueAccess("acc-gone")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, do("Bearer "+access))
	})

	t.Run("deactivated account", func(t *testing.T) {
		access, err := tokens.IssueAccess(inactive.ID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, do("Bearer "+access))
	})
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example.org"})(okHandler())

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/members", nil)
		req.Header.Set("Origin", "https://app.example.org")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, "https://app.example.org", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/members", nil)
		req.Header.Set("Origin", "https://evil.example.org")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/members", nil)
		req.Header.Set("Origin", "https://app.example.org")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
