package storage

import (
	"context"

	"github.com/google/uuid"
)

// Avatars — контракт загрузки аватара в блоб-хранилище.
type Avatars interface {
	// UploadAvatar загружает байты изображения под детерминированным ключом,
	// производным только от userID: повторная загрузка того же пользователя
	// перезаписывает предыдущий объект. Версионирования и очистки нет.
	// Одна попытка на вызов, без внутренних ретраев.
	// Возвращает стабильный публичный URL, валидный до следующей перезаписи.
	UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte) (publicURL string, err error)
}

// AvatarsStorage — алиас-обёртка для внедрения зависимости.
type AvatarsStorage interface {
	Avatars
}
