package auth

import (
	"context"

	"flock/internal/models"
)

type ctxKey string

const accountKey ctxKey = "auth_account"

// ContextWithAccount stores the authenticated account in the context.
func ContextWithAccount(ctx context.Context, acc *models.Account) context.Context {
	return context.WithValue(ctx, accountKey, acc)
}

// AccountFromContext extracts the authenticated account from the context.
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	acc, ok := ctx.Value(accountKey).(*models.Account)
	if !ok || acc == nil {
		return nil, false
	}
	return acc, true
}
