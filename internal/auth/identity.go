// auth отвечает за идентификацию текущей сессии.
//
// Сервис токены не выпускает: он только валидирует access-токен,
// выпущенный auth-сервисом, и достаёт из него стабильный user id.
// Этот id — единственный источник ключей для документа профиля,
// блоба аватара и локального зеркала.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/SanskarM1/music-app/internal/config"
)

type tokenKey struct{}

// WithToken кладёт «сырой» bearer-токен в контекст (его пишет HTTP-мидлвар).
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom достаёт токен из контекста.
func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// Identity — узкий контракт «кто сейчас залогинен».
type Identity interface {
	// CurrentUserID возвращает стабильный id аутентифицированного пользователя
	// или ok=false, если валидной сессии нет.
	CurrentUserID(ctx context.Context) (uuid.UUID, bool)
}

type accessClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenIdentity валидирует HS256 access-токен из контекста запроса.
type TokenIdentity struct {
	cfg config.AuthConfig
}

// NewTokenIdentity создаёт Identity поверх настроек валидации токенов.
func NewTokenIdentity(cfg config.AuthConfig) *TokenIdentity {
	return &TokenIdentity{cfg: cfg}
}

var _ Identity = (*TokenIdentity)(nil)

// CurrentUserID достаёт токен из контекста и валидирует подпись/клеймы.
// Любая проблема токена означает отсутствие сессии, а не отдельную ошибку.
func (i *TokenIdentity) CurrentUserID(ctx context.Context) (uuid.UUID, bool) {
	raw, ok := TokenFrom(ctx)
	if !ok {
		return uuid.Nil, false
	}

	uid, err := i.validateAccessToken(raw)
	if err != nil {
		return uuid.Nil, false
	}

	return uid, true
}

// validateAccessToken валидирует access-токен.
func (i *TokenIdentity) validateAccessToken(tokenStr string) (uuid.UUID, error) {
	const op = "auth/identity/validateAccessToken"

	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: unexpected signing method", op)
			}

			return []byte(i.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience...),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("%s: invalid claims", op)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return uid, nil
}
