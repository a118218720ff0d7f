package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// PurposeAccess / PurposeRefresh — маркер назначения токена.
	// Не даёт использовать refresh-токен как access и наоборот.
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"

	issuer = "flock"

	defaultAccessTTL  = 7 * 24 * time.Hour
	defaultRefreshTTL = 30 * 24 * time.Hour
)

var (
	// ErrInvalidToken — общий отказ: битый, просроченный или с неверной
	// подписью токен. Наружу деталь не раскрываем.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrWrongPurpose — токен валиден, но предъявлен не по назначению.
	ErrWrongPurpose = errors.New("auth: wrong token purpose")
)

// Claims — стандартные утверждения плюс маркер назначения.
type Claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService подписывает и проверяет access/refresh JWT (HS256).
// Ключи подписи у access и refresh разные.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// Option настраивает TokenService.
type Option func(*TokenService)

// WithClock подменяет источник времени (для тестов).
func WithClock(fn func() time.Time) Option {
	return func(s *TokenService) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithTTL задаёт времена жизни токенов; неположительные значения игнорируются.
func WithTTL(access, refresh time.Duration) Option {
	return func(s *TokenService) {
		if access > 0 {
			s.accessTTL = access
		}
		if refresh > 0 {
			s.refreshTTL = refresh
		}
	}
}

func NewTokenService(accessSecret, refreshSecret string, opts ...Option) (*TokenService, error) {
	if strings.TrimSpace(accessSecret) == "" || strings.TrimSpace(refreshSecret) == "" {
		return nil, errors.New("auth: signing secrets are required")
	}
	s := &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     defaultAccessTTL,
		refreshTTL:    defaultRefreshTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RefreshTTL — срок жизни refresh-токена (нужен для max-age cookie).
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess подписывает access-токен для учётной записи.
func (s *TokenService) IssueAccess(accountID string) (string, error) {
	return s.issue(accountID, PurposeAccess, s.accessSecret, s.accessTTL)
}

// IssueRefresh подписывает refresh-токен для учётной записи.
func (s *TokenService) IssueRefresh(accountID string) (string, error) {
	return s.issue(accountID, PurposeRefresh, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) issue(accountID, purpose string, secret []byte, ttl time.Duration) (string, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return "", errors.New("auth: accountID is required")
	}
	now := s.now().UTC()
	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify проверяет подпись, срок и назначение токена; возвращает account ID.
// Битый/просроченный/чужой токен — единый ErrInvalidToken; неверное
// назначение отклоняется отдельно (подмена назначения = эскалация срока).
func (s *TokenService) Verify(token, purpose string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}
	secret := s.accessSecret
	if purpose == PurposeRefresh {
		secret = s.refreshSecret
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }), jwt.WithIssuer(issuer))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return "", ErrWrongPurpose
	}
	accountID := strings.TrimSpace(claims.Subject)
	if accountID == "" {
		return "", ErrInvalidToken
	}
	return accountID, nil
}

// BearerToken извлекает токен из заголовка Authorization.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
