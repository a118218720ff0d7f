package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"flock/internal/auth"
	"flock/internal/logs"
	"flock/internal/middleware"
	"flock/internal/models"
	"flock/internal/repo"
)

// RefreshCookie — имя cookie с refresh-токеном. Cookie HTTP-only,
// SameSite=Strict и ограничена путём /api/auth: браузер не отдаст её
// ни одному другому маршруту.
const RefreshCookie = "refreshToken"

const cookiePath = "/api/auth"

// invalidCredentials — единый текст для неизвестного email, неверного
// пароля и деактивированной записи: перебор аккаунтов не должен
// отличать эти случаи.
const invalidCredentials = "invalid credentials"

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AccountStore — минимальный контракт хранилища для сессий.
// Конкретная реализация — repo.AccountStore; в тестах — фейк.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	CreateWithProfile(ctx context.Context, a *models.Account, p *models.Profile) error
}

type Handler struct {
	store         AccountStore
	tokens        *auth.TokenService
	secureCookies bool // true вне development
}

func New(store AccountStore, tokens *auth.TokenService, secureCookies bool) *Handler {
	return &Handler{store: store, tokens: tokens, secureCookies: secureCookies}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role,omitempty"`
}

type sessionResponse struct {
	Timestamp   string          `json:"timestamp"`
	User        *models.Account `json:"user"`
	AccessToken string          `json:"accessToken"`
}

type tokenResponse struct {
	Timestamp   string `json:"timestamp"`
	AccessToken string `json:"accessToken"`
}

type messageResponse struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body", nil)
		return
	}

	var violations []string
	if !emailRe.MatchString(repo.NormalizeEmail(req.Email)) {
		violations = append(violations, "email must be a valid address")
	}
	if len(req.Password) < auth.MinPasswordLen {
		violations = append(violations, "password must be at least 6 characters")
	}
	if len(violations) > 0 {
		writeValidation(w, violations)
		return
	}

	acc, err := h.store.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			h.unauthorized(w, invalidCredentials)
			return
		}
		h.internalError(w, r, err)
		return
	}
	if !acc.Active || !auth.VerifyPassword(acc.PasswordHash, req.Password) {
		h.unauthorized(w, invalidCredentials)
		return
	}

	h.respondWithSession(w, r, acc, http.StatusOK)
}

// POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body", nil)
		return
	}

	var violations []string
	if !emailRe.MatchString(repo.NormalizeEmail(req.Email)) {
		violations = append(violations, "email must be a valid address")
	}
	if len(req.Password) < auth.MinPasswordLen {
		violations = append(violations, "password must be at least 6 characters")
	}
	if req.FirstName == "" {
		violations = append(violations, "firstName is required")
	}
	if req.LastName == "" {
		violations = append(violations, "lastName is required")
	}
	role := models.RoleMember
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok {
			violations = append(violations, "role must be one of: administrator, pastoral-staff, care-team, group-leader, member")
		} else {
			role = parsed
		}
	}
	if len(violations) > 0 {
		writeValidation(w, violations)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	acc := &models.Account{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	profile := &models.Profile{FirstName: req.FirstName, LastName: req.LastName}
	if err := h.store.CreateWithProfile(r.Context(), acc, profile); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			// Осознанная асимметрия с /login: здесь существование email
			// раскрывается явно ради внятного UX регистрации.
			models.WriteProblem(w, http.StatusConflict, "Conflict", "email already registered", nil)
			return
		}
		h.internalError(w, r, err)
		return
	}
	acc.Profile = *profile

	h.respondWithSession(w, r, acc, http.StatusCreated)
}

// POST /api/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(RefreshCookie)
	if err != nil || c.Value == "" {
		h.unauthorized(w, "refresh token not provided")
		return
	}
	accountID, err := h.tokens.Verify(c.Value, auth.PurposeRefresh)
	if err != nil {
		h.unauthorized(w, "invalid refresh token")
		return
	}
	// Новый только access; refresh-токен не ротируется (см. DESIGN.md).
	access, err := h.tokens.IssueAccess(accountID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, tokenResponse{Timestamp: models.Stamp(), AccessToken: access})
}

// POST /api/auth/logout — только инструкция клиенту стереть cookie;
// выданные токены живут до естественного истечения.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearRefreshCookie(w)
	models.WriteJSON(w, http.StatusOK, messageResponse{Timestamp: models.Stamp(), Message: "logged out"})
}

// GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		h.unauthorized(w, "access token required")
		return
	}
	accountID, err := h.tokens.Verify(token, auth.PurposeAccess)
	if err != nil {
		h.unauthorized(w, "invalid access token")
		return
	}
	acc, err := h.store.FindByID(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			h.unauthorized(w, "invalid access token")
			return
		}
		h.internalError(w, r, err)
		return
	}
	if !acc.Active {
		h.unauthorized(w, "invalid access token")
		return
	}
	models.WriteJSON(w, http.StatusOK, struct {
		Timestamp string          `json:"timestamp"`
		User      *models.Account `json:"user"`
	}{models.Stamp(), acc})
}

func (h *Handler) respondWithSession(w http.ResponseWriter, r *http.Request, acc *models.Account, status int) {
	access, err := h.tokens.IssueAccess(acc.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	refresh, err := h.tokens.IssueRefresh(acc.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.setRefreshCookie(w, refresh)
	models.WriteJSON(w, status, sessionResponse{
		Timestamp:   models.Stamp(),
		User:        acc,
		AccessToken: access,
	})
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    value,
		Path:     cookiePath,
		MaxAge:   int(h.tokens.RefreshTTL() / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     cookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) unauthorized(w http.ResponseWriter, detail string) {
	models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", detail, nil)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	// Деталь — только в серверный лог; клиенту — общий ответ.
	logs.Logger.Errorf("session: %v reqid=%s uri=%s", err, middleware.GetRequestID(r), r.RequestURI)
	models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error",
		"unexpected server error", nil)
}

func writeValidation(w http.ResponseWriter, violations []string) {
	models.WriteProblem(w, http.StatusBadRequest, "Validation Failed",
		"request body failed validation", map[string]any{"violations": violations})
}
