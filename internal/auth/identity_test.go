package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/SanskarM1/music-app/internal/config"
)

// Тесты Identity.
//
// Покрытие:
//  - happy-path: валидный HS256 токен в контексте -> uid;
//  - отсутствие токена в контексте -> нет сессии;
//  - неверная подпись / чужой issuer / истёкший токен -> нет сессии;
//  - битый uid в клеймах -> нет сессии.

func testCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "auth-service",
		Audience:  []string{"profile-service"},
	}
}

func signToken(t *testing.T, cfg config.AuthConfig, uid string, expIn time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := accessClaims{
		UserID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
			Subject:   uid,
			Audience:  jwt.ClaimStrings(cfg.Audience),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	return signed
}

func TestCurrentUserID_OK(t *testing.T) {
	cfg := testCfg()
	id := NewTokenIdentity(cfg)

	want := uuid.New()
	ctx := WithToken(context.Background(), signToken(t, cfg, want.String(), time.Minute))

	got, ok := id.CurrentUserID(ctx)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestCurrentUserID_NoToken(t *testing.T) {
	id := NewTokenIdentity(testCfg())

	_, ok := id.CurrentUserID(context.Background())
	require.False(t, ok)
}

func TestCurrentUserID_WrongSecret(t *testing.T) {
	cfg := testCfg()
	id := NewTokenIdentity(cfg)

	other := cfg
	other.JWTSecret = "other-secret"
	ctx := WithToken(context.Background(), signToken(t, other, uuid.NewString(), time.Minute))

	_, ok := id.CurrentUserID(ctx)
	require.False(t, ok)
}

func TestCurrentUserID_WrongIssuer(t *testing.T) {
	cfg := testCfg()
	id := NewTokenIdentity(cfg)

	other := cfg
	other.Issuer = "someone-else"
	ctx := WithToken(context.Background(), signToken(t, other, uuid.NewString(), time.Minute))

	_, ok := id.CurrentUserID(ctx)
	require.False(t, ok)
}

func TestCurrentUserID_Expired(t *testing.T) {
	cfg := testCfg()
	id := NewTokenIdentity(cfg)

	// Выходим за leeway валидации (5s).
	ctx := WithToken(context.Background(), signToken(t, cfg, uuid.NewString(), -time.Minute))

	_, ok := id.CurrentUserID(ctx)
	require.False(t, ok)
}

func TestCurrentUserID_MalformedUID(t *testing.T) {
	cfg := testCfg()
	id := NewTokenIdentity(cfg)

	ctx := WithToken(context.Background(), signToken(t, cfg, "not-a-uuid", time.Minute))

	_, ok := id.CurrentUserID(ctx)
	require.False(t, ok)
}
