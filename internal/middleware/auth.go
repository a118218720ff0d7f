package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"flock/internal/auth"
	"flock/internal/logs"
	"flock/internal/models"
	"flock/internal/repo"
)

// AccountLoader — загрузка учётной записи по ID из access-токена.
type AccountLoader interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
}

// Auth проверяет bearer access-токен, грузит учётную запись и кладёт её
// в контекст запроса. Неактивная или исчезнувшая запись — 401:
// токен сам по себе сессию не гарантирует.
func Auth(tokens *auth.TokenService, store AccountLoader) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "access token required", nil)
				return
			}
			accountID, err := tokens.Verify(token, auth.PurposeAccess)
			if err != nil {
				models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid access token", nil)
				return
			}
			acc, err := store.FindByID(r.Context(), accountID)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid access token", nil)
					return
				}
				logs.Logger.Errorf("auth middleware: %v reqid=%s", err, GetRequestID(r))
				models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error",
					"unexpected server error", nil)
				return
			}
			if !acc.Active {
				models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid access token", nil)
				return
			}
			ctx := auth.ContextWithAccount(r.Context(), acc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
