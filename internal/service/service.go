// service содержит бизнес-логику profile-сервиса:
// - чтение профиля для экрана редактирования;
// - workflow подтверждения правок: валидация -> загрузка аватара ->
//   полная перезапись документа -> атомарный коммит локального зеркала.
package service

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/SanskarM1/music-app/internal/auth"
	"github.com/SanskarM1/music-app/internal/cache"
	"github.com/SanskarM1/music-app/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные данные (валидация).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — сущность не найдена.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthenticated — валидной сессии нет.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrBusy — предыдущий запуск workflow ещё в полёте.
	ErrBusy = errors.New("profile update already in progress")
	// ErrUploadFailed — загрузка аватара в блоб-хранилище не удалась.
	// Текст ошибки несёт причину и показывается пользователю как есть.
	ErrUploadFailed = errors.New("upload failed")
	// ErrPersistFailed — перезапись документа профиля не удалась.
	ErrPersistFailed = errors.New("persist failed")
	// ErrInternal — внутренняя ошибка сервиса.
	ErrInternal = errors.New("internal")
)

// Service — описывает бизнес-логику profile-сервиса.
type Service struct {
	profilesStorage storage.ProfilesStorage
	avatarsStorage  storage.AvatarsStorage
	profileCache    cache.ProfileCache
	identity        auth.Identity

	// inflight хранит user_id сессий с незавершённым запуском ConfirmEdit.
	// Сериализация — на пользователя: повторная отправка той же сессии
	// отклоняется с ErrBusy, независимые пользователи друг друга не блокируют.
	inflight sync.Map
}

// New создает новый экземпляр Service.
func New(
	profilesStorage storage.ProfilesStorage,
	avatarsStorage storage.AvatarsStorage,
	profileCache cache.ProfileCache,
	identity auth.Identity,
) *Service {
	return &Service{
		profilesStorage: profilesStorage,
		avatarsStorage:  avatarsStorage,
		profileCache:    profileCache,
		identity:        identity,
	}
}

// Busy сообщает, выполняется ли сейчас запуск workflow для данного пользователя.
// UI использует это как признак «заблокировать кнопку Confirm».
func (s *Service) Busy(userID uuid.UUID) bool {
	_, ok := s.inflight.Load(userID)
	return ok
}
