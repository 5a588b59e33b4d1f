// cache реализует локальное зеркало последнего успешно сохранённого профиля
// (имя, URL аватара, признак залогиненности) поверх Redis.
//
// Зеркало — единственное место, откуда остальное приложение читает
// "текущего пользователя"; обновляется только целиком (Commit), чтобы
// читатель никогда не увидел наполовину обновлённое состояние.
package cache

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/SanskarM1/music-app/internal/models"
)

// ProfileCache — минимальный контракт зеркала профиля.
type ProfileCache interface {
	// Read возвращает зеркало и признак его наличия.
	Read(ctx context.Context, userID uuid.UUID) (*models.CachedProfile, bool, error)
	// Commit атомарно заменяет зеркало целиком, включая признак
	// залогиненности: частичных обновлений у зеркала нет.
	Commit(ctx context.Context, profile *models.CachedProfile) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "profile:mirror:".
func NewRedisCache(redisURL, prefix string) (ProfileCache, error) {
	if prefix == "" {
		prefix = "profile:mirror:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(userID uuid.UUID) string { return c.prefix + userID.String() }

// Храним как Redis Hash с полями: uid, username, avatar_url, logged_in (0/1).
func (c *redisCache) Read(ctx context.Context, userID uuid.UUID) (*models.CachedProfile, bool, error) {
	m, err := c.rdb.HGetAll(ctx, c.key(userID)).Result()
	if err != nil {
		return nil, false, err
	}

	if len(m) == 0 {
		return nil, false, nil
	}

	uid, err := uuid.Parse(m["uid"])
	if err != nil {
		return nil, false, err
	}

	profile := &models.CachedProfile{
		UserID:    uid,
		Username:  m["username"],
		AvatarURL: m["avatar_url"],
		LoggedIn:  m["logged_in"] == "1",
	}

	return profile, true, nil
}

// Commit пишет все поля одной командой HSET: Redis выполняет её атомарно,
// поэтому промежуточное состояние (новое имя при старом аватаре) ненаблюдаемо.
// TTL не выставляется — зеркало переживает рестарты процесса.
func (c *redisCache) Commit(ctx context.Context, profile *models.CachedProfile) error {
	loggedIn := "0"
	if profile.LoggedIn {
		loggedIn = "1"
	}

	return c.rdb.HSet(ctx, c.key(profile.UserID), map[string]any{
		"uid":        profile.UserID.String(),
		"username":   profile.Username,
		"avatar_url": profile.AvatarURL,
		"logged_in":  loggedIn,
	}).Err()
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}
