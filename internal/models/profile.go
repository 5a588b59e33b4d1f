// models содержит доменные сущности profile-сервиса.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile — внутренняя доменная модель профиля (документ в БД).
// Запись всегда перезаписывается целиком при сохранении — merge-семантики нет,
// поэтому непустые поля нужно явно переносить из предыдущего состояния.
type Profile struct {
	UserID    uuid.UUID
	Username  string
	Bio       string
	BioLink   string
	Email     string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CachedProfile — локальное зеркало последнего успешно сохранённого профиля.
// Читается остальным приложением; обновляется только целиком и только после
// подтверждённого сохранения документа (см. cache.ProfileCache.Commit).
type CachedProfile struct {
	UserID    uuid.UUID
	Username  string
	AvatarURL string
	LoggedIn  bool
}

// EditBuffer — буфер незавершённого редактирования профиля.
// Pending-поля принадлежат UI; Current-поля — неизменяемый базис,
// показываемый как плейсхолдеры. Workflow берёт буфер как снапшот
// (по значению) и никогда его не мутирует.
type EditBuffer struct {
	PendingName    string
	PendingBio     string
	PendingBioLink string
	PendingImage   []byte

	CurrentName  string
	CurrentBio   string
	CurrentEmail string
}

// HasAnyEdit сообщает, есть ли хотя бы одно запрошенное изменение.
// Пустой буфер не должен запускать workflow вовсе (no-op, не ошибка).
func (b EditBuffer) HasAnyEdit() bool {
	return b.PendingName != "" || b.PendingBio != "" || len(b.PendingImage) > 0
}
