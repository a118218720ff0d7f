package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"flock/internal/auth"
	"flock/internal/logs"
	"flock/internal/middleware"
	"flock/internal/models"
	"flock/internal/repo"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body", nil)
		return false
	}
	return true
}

// pathUUID достаёт и валидирует UUID из пути; мусор в {id} — это 400, не 404.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := mux.Vars(r)[name]
	if _, err := uuid.Parse(raw); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", name+" must be a valid UUID", nil)
		return "", false
	}
	return raw, true
}

// requireAccount — учётная запись из контекста (кладёт middleware.Auth).
func requireAccount(w http.ResponseWriter, r *http.Request) (*models.Account, bool) {
	acc, ok := auth.AccountFromContext(r.Context())
	if !ok {
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "access token required", nil)
		return nil, false
	}
	return acc, true
}

// requireRole — авторизация по роли; administrator проходит всегда.
func requireRole(w http.ResponseWriter, r *http.Request, roles ...models.Role) (*models.Account, bool) {
	acc, ok := requireAccount(w, r)
	if !ok {
		return nil, false
	}
	if acc.Role == models.RoleAdministrator {
		return acc, true
	}
	for _, role := range roles {
		if acc.Role == role {
			return acc, true
		}
	}
	models.WriteProblem(w, http.StatusForbidden, "Forbidden", "insufficient role", nil)
	return nil, false
}

// storeError отображает ошибки хранилища в HTTP-статусы.
func storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		models.WriteProblem(w, http.StatusNotFound, "Not Found", "record not found", nil)
	case errors.Is(err, repo.ErrDuplicate):
		models.WriteProblem(w, http.StatusConflict, "Conflict", "record already exists", nil)
	case errors.Is(err, repo.ErrCapacity):
		models.WriteProblem(w, http.StatusConflict, "Conflict", "event is full", nil)
	case errors.Is(err, repo.ErrEmailTaken):
		models.WriteProblem(w, http.StatusConflict, "Conflict", "email already registered", nil)
	default:
		logs.Logger.Errorf("api: %v reqid=%s uri=%s", err, middleware.GetRequestID(r), r.RequestURI)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error",
			"unexpected server error", nil)
	}
}

func writeValidation(w http.ResponseWriter, violations []string) {
	models.WriteProblem(w, http.StatusBadRequest, "Validation Failed",
		"request body failed validation", map[string]any{"violations": violations})
}
