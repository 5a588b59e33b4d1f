// storage содержит контракты слоя хранилищ profile-сервиса.
//
// profiles.go - документ профиля в БД: чтение и полная перезапись по user_id.
// avatars.go  - контракт загрузки аватара в S3/MinIO.
package storage

import (
	"context"
	"errors"

	"github.com/SanskarM1/music-app/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrNotFoundProfile — профиль не найден.
	ErrNotFoundProfile = errors.New("not found")
	// ErrInvalidArgument — нарушены ограничения запроса (пустой ключ, тип/размер).
	ErrInvalidArgument = errors.New("invalid argument")
)

// Profiles — контракт репозитория профилей.
type Profiles interface {
	// SaveProfile полностью перезаписывает документ по profile.UserID
	// (upsert без merge-семантики: каждая колонка получает значение из profile).
	// Повторный вызов с тем же документом идемпотентен.
	SaveProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	// ProfileByID возвращает профиль по user_id.
	ProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// ProfilesStorage — верхнеуровневый интерфейс хранилища профилей.
type ProfilesStorage interface {
	Profiles
	Close()
}
