package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flock/internal/auth"
	"flock/internal/models"
	"flock/internal/repo"
)

// fakeStore — хранилище в памяти; поведение повторяет repo.AccountStore.
type fakeStore struct {
	byID    map[string]*models.Account
	byEmail map[string]*models.Account
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byID:    map[string]*models.Account{},
		byEmail: map[string]*models.Account{},
	}
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	a, ok := s.byEmail[repo.NormalizeEmail(email)]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return a, nil
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*models.Account, error) {
	a, ok := s.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return a, nil
}

func (s *fakeStore) CreateWithProfile(_ context.Context, a *models.Account, p *models.Profile) error {
	a.Email = repo.NormalizeEmail(a.Email)
	if _, ok := s.byEmail[a.Email]; ok {
		return repo.ErrEmailTaken
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	p.AccountID = a.ID
	s.byID[a.ID] = a
	s.byEmail[a.Email] = a
	return nil
}

func newTestRouter(t *testing.T) (*mux.Router, *fakeStore, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService("test-access-secret", "test-refresh-secret")
	require.NoError(t, err)
	store := newFakeStore()
	r := mux.NewRouter()
	RegisterRoutes(r, New(store, tokens, false), nil)
	return r, store, tokens
}

func seedAccount(t *testing.T, store *fakeStore, email, password string, active bool) *models.Account {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	acc := &models.Account{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleMember,
		Active:       active,
	}
	require.NoError(t, store.CreateWithProfile(context.Background(),
		acc, &models.Profile{FirstName: "Anna", LastName: "Baker"}))
	return acc
}

func TestRegisterAndMe(t *testing.T) {
	r, _, _ := newTestRouter(t)

	body := apitest.New().
		Handler(r).
		Post("/api/auth/register").
		JSON(`{"email":"Anna@Example.org","password":"secret1","firstName":"Anna","lastName":"Baker"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal("$.user.email", "anna@example.org")).
		Assert(jsonpath.Equal("$.user.role", "member")).
		Assert(jsonpath.Equal("$.user.active", true)).
		Assert(jsonpath.Present("$.accessToken")).
		Assert(jsonpath.Present("$.timestamp")).
		End().Response.Body

	var resp sessionResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))

	apitest.New().
		Handler(r).
		Get("/api/auth/me").
		Header("Authorization", "Bearer "+resp.AccessToken).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.user.email", "anna@example.org")).
		End()
}

func TestRegisterNeverLeaksPasswordHash(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(
		`{"email":"anna@example.org","password":"secret1","firstName":"Anna","lastName":"Baker"}`))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, strings.ToLower(w.Body.String()), "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, store, _ := newTestRouter(t)
	seedAccount(t, store, "anna@example.org", "secret1", true)

	// регистр email не различается
	apitest.New().
		Handler(r).
		Post("/api/auth/register").
		JSON(`{"email":"ANNA@example.org","password":"secret1","firstName":"Anna","lastName":"Baker"}`).
		Expect(t).
		Status(http.StatusConflict).
		Assert(jsonpath.Equal("$.detail", "email already registered")).
		End()
}

func TestRegisterValidation(t *testing.T) {
	r, _, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"not-an-email","password":"secret1","firstName":"A","lastName":"B"}`},
		{"short password", `{"email":"a@b.org","password":"12345","firstName":"A","lastName":"B"}`},
		{"missing names", `{"email":"a@b.org","password":"secret1"}`},
		{"unknown role", `{"email":"a@b.org","password":"secret1","firstName":"A","lastName":"B","role":"bishop"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			apitest.New().
				Handler(r).
				Post("/api/auth/register").
				JSON(tc.body).
				Expect(t).
				Status(http.StatusBadRequest).
				Assert(jsonpath.Present("$.extra.violations")).
				End()
		})
	}
}

func TestRegisterAcceptsExplicitRole(t *testing.T) {
	r, _, _ := newTestRouter(t)

	apitest.New().
		Handler(r).
		Post("/api/auth/register").
		JSON(`{"email":"lead@example.org","password":"secret1","firstName":"Lena","lastName":"Orlova","role":"group-leader"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal("$.user.role", "group-leader")).
		End()
}

func TestLoginHappyPath(t *testing.T) {
	r, store, _ := newTestRouter(t)
	seedAccount(t, store, "anna@example.org", "secret1", true)

	apitest.New().
		Handler(r).
		Post("/api/auth/login").
		JSON(`{"email":"Anna@Example.org","password":"secret1"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.user.email", "anna@example.org")).
		Assert(jsonpath.Present("$.accessToken")).
		End()
}

// Неизвестный email, неверный пароль и деактивированная запись должны
// давать неотличимые ответы.
func TestLoginDoesNotRevealWhichCredentialFailed(t *testing.T) {
	r, store, _ := newTestRouter(t)
	seedAccount(t, store, "anna@example.org", "secret1", true)
	seedAccount(t, store, "gone@example.org", "secret1", false)

	do := func(body string) (int, map[string]any) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
		r.ServeHTTP(w, req)
		var m map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
		delete(m, "timestamp")
		return w.Code, m
	}

	codeUnknown, bodyUnknown := do(`{"email":"nobody@example.org","password":"secret1"}`)
	codeWrongPw, bodyWrongPw := do(`{"email":"anna@example.org","password":"wrong-pass"}`)
	codeInactive, bodyInactive := do(`{"email":"gone@example.org","password":"secret1"}`)

	assert.Equal(t, http.StatusUnauthorized, codeUnknown)
	assert.Equal(t, codeUnknown, codeWrongPw)
	assert.Equal(t, codeUnknown, codeInactive)
	assert.Equal(t, bodyUnknown, bodyWrongPw)
	assert.Equal(t, bodyUnknown, bodyInactive)
	assert.Equal(t, "invalid credentials", bodyUnknown["detail"])
}

func refreshCookieOf(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == RefreshCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", RefreshCookie)
	return nil
}

func TestLoginSetsRefreshCookie(t *testing.T) {
	r, store, tokens := newTestRouter(t)
	seedAccount(t, store, "anna@example.org", "secret1", true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(
		`{"email":"anna@example.org","password":"secret1"}`))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	c := refreshCookieOf(t, w.Result())
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/api/auth", c.Path)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, int(tokens.RefreshTTL()/time.Second), c.MaxAge)

	// refresh-токен из cookie обязан проходить проверку как refresh
	_, err := tokens.Verify(c.Value, auth.PurposeRefresh)
	assert.NoError(t, err)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	r, store, tokens := newTestRouter(t)
	acc := seedAccount(t, store, "anna@example.org", "secret1", true)

	refresh, err := tokens.IssueRefresh(acc.ID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: refresh})
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	id, err := tokens.Verify(resp.AccessToken, auth.PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, id)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	r, store, tokens := newTestRouter(t)
	acc := seedAccount(t, store, "anna@example.org", "secret1", true)

	access, err := tokens.IssueAccess(acc.ID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: access})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid refresh token")
}

func TestRefreshWithoutCookie(t *testing.T) {
	r, _, _ := newTestRouter(t)

	apitest.New().
		Handler(r).
		Post("/api/auth/refresh").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.detail", "refresh token not provided")).
		End()
}

func TestLogoutClearsRefreshCookie(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	c := refreshCookieOf(t, w.Result())
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}

func TestMeRejectsBadTokens(t *testing.T) {
	r, store, tokens := newTestRouter(t)

	t.Run("no header", func(t *testing.T) {
		apitest.New().Handler(r).
			Get("/api/auth/me").
			Expect(t).
			Status(http.StatusUnauthorized).
			Assert(jsonpath.Equal("$.detail", "access token required")).
			End()
	})

	t.Run("garbage token", func(t *testing.T) {
		apitest.New().Handler(r).
			Get("/api/auth/me").
			Header("Authorization", "Bearer not.a.token").
			Expect(t).
			Status(http.StatusUnauthorized).
			Assert(jsonpath.Equal("$.detail", "invalid access token")).
			End()
	})

	t.Run("refresh token in place of access", func(t *testing.T) {
		acc := seedAccount(t, store, "anna@example.org", "secret1", true)
		refresh, err := tokens.IssueRefresh(acc.ID)
		require.NoError(t, err)
		apitest.New().Handler(r).
			Get("/api/auth/me").
			Header("Authorization", "Bearer "+refresh).
			Expect(t).
			Status(http.StatusUnauthorized).
			End()
	})

	t.Run("account no longer exists", func(t *testing.T) {
		access, err := tokens.IssueAccess(uuid.NewString())
		require.NoError(t, err)
		apitest.New().Handler(r).
			Get("/api/auth/me").
			Header("Authorization", "Bearer "+access).
			Expect(t).
			Status(http.StatusUnauthorized).
			Assert(jsonpath.Equal("$.detail", "invalid access token")).
			End()
	})

	t.Run("deactivated account", func(t *testing.T) {
		acc := seedAccount(t, store, "left@example.org", "secret1", false)
		access, err := tokens.IssueAccess(acc.ID)
		require.NoError(t, err)
		apitest.New().Handler(r).
			Get("/api/auth/me").
			Header("Authorization", "Bearer "+access).
			Expect(t).
			Status(http.StatusUnauthorized).
			Assert(jsonpath.Equal("$.detail", "invalid access token")).
			End()
	})
}
