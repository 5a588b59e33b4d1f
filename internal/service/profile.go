package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/SanskarM1/music-app/internal/models"
	"github.com/SanskarM1/music-app/internal/pkg/log"
	"github.com/SanskarM1/music-app/internal/storage"
)

// ConfirmResult — итог запуска workflow подтверждения правок.
// Applied=false означает, что буфер был пуст и запуск не состоялся
// (no-op, не ошибка): ни одна внешняя система не вызывалась.
type ConfirmResult struct {
	Applied bool
	Profile *models.CachedProfile
}

// StartEdit собирает буфер редактирования из текущих значений,
// показываемых как плейсхолдеры. Базис неизменяем на всё время правки.
func StartEdit(currentName, currentBio, currentEmail string) models.EditBuffer {
	return models.EditBuffer{
		CurrentName:  currentName,
		CurrentBio:   currentBio,
		CurrentEmail: currentEmail,
	}
}

// Profile возвращает документ профиля текущей сессии
// (экран редактирования берёт отсюда базис для StartEdit).
//
// Поведение:
//   - нет сессии -> ErrNotAuthenticated;
//   - записи нет -> ErrNotFound;
//   - прочие ошибки стораджа -> ErrInternal.
func (s *Service) Profile(ctx context.Context) (*models.Profile, error) {
	const op = "service/profile/Profile"

	lg := log.From(ctx).With("op", op)

	userID, ok := s.identity.CurrentUserID(ctx)
	if !ok {
		lg.Warn("no authenticated session")

		return nil, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	result, err := s.profilesStorage.ProfileByID(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFoundProfile):
			lg.Warn("profile not found", "user_id", userID.String())

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on ProfileByID", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// ConfirmEdit — workflow публикации правок профиля.
//
// Этапы строго последовательны: результат загрузки аватара попадает в
// документ, а зеркало коммитится только после подтверждённой записи документа.
//
//	Validating -> UploadingImage (если есть картинка) -> PersistingRecord -> CommittingCache
//
// Правила:
//   - пустой буфер (HasAnyEdit()==false) -> Applied=false, ни одного
//     внешнего вызова;
//   - нет сессии -> ErrNotAuthenticated;
//   - ошибка загрузки -> ErrUploadFailed с причиной; документ не трогается;
//   - ошибка записи документа -> ErrPersistFailed с причиной; зеркало не
//     трогается; уже загруженный блоб остаётся (осознанный сирота, без
//     компенсационного удаления);
//   - отмена контекста до коммита -> результат отбрасывается, зеркало не
//     трогается;
//   - повторный вызов той же сессии при незавершённом запуске -> ErrBusy;
//     запуски независимых пользователей друг друга не блокируют.
//
// Буфер берётся по значению и не мутируется: при любой ошибке UI может
// повторить отправку без повторного ввода.
func (s *Service) ConfirmEdit(ctx context.Context, buf models.EditBuffer) (*ConfirmResult, error) {
	const op = "service/profile/ConfirmEdit"

	lg := log.From(ctx).With("op", op)

	if !buf.HasAnyEdit() {
		lg.Debug("empty edit buffer, nothing to publish")

		return &ConfirmResult{Applied: false}, nil
	}

	// Validating: id сессии резолвится один раз и используется как ключ
	// и для блоба, и для документа, и для зеркала.
	userID, ok := s.identity.CurrentUserID(ctx)
	if !ok {
		lg.Warn("no authenticated session")

		return nil, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	lg = lg.With("user_id", userID.String())

	// Защёлка на пользователя: повторная отправка той же сессии при
	// незавершённом запуске отклоняется, чужие сессии не задеваются.
	if _, inflight := s.inflight.LoadOrStore(userID, struct{}{}); inflight {
		lg.Warn("re-entrant confirm rejected")

		return nil, fmt.Errorf("%s: %w", op, ErrBusy)
	}
	defer s.inflight.Delete(userID)

	// UploadingImage: только если картинка есть; иначе последний известный
	// avatar_url переносится в документ явно (перезапись всегда полная).
	var avatarURL string

	if len(buf.PendingImage) > 0 {
		url, err := s.avatarsStorage.UploadAvatar(ctx, userID, buf.PendingImage)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrInvalidArgument):
				lg.Warn("avatar rejected by validation", "err", err)

				return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
			default:
				lg.Error("avatar upload failed", "err", err)

				return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
			}
		}

		avatarURL = url
		lg.Info("avatar uploaded", "avatar_url", avatarURL)
	} else {
		url, err := s.lastKnownAvatarURL(ctx, userID)
		if err != nil {
			lg.Error("carry-forward avatar lookup failed", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}

		avatarURL = url
	}

	// PersistingRecord: документ собирается целиком — пустые pending-поля
	// означают «без изменений», их значения переносятся из базиса.
	record := &models.Profile{
		UserID:    userID,
		Username:  pick(buf.PendingName, buf.CurrentName),
		Bio:       pick(buf.PendingBio, buf.CurrentBio),
		BioLink:   strings.TrimSpace(buf.PendingBioLink),
		Email:     buf.CurrentEmail,
		AvatarURL: avatarURL,
	}

	saved, err := s.profilesStorage.SaveProfile(ctx, record)
	if err != nil {
		lg.Error("profile persist failed", "err", err)

		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	// Наблюдателя могло уже не быть (запрос отменён с той стороны):
	// результат отбрасывается, зеркало остаётся прежним.
	if err := ctx.Err(); err != nil {
		lg.Warn("run canceled before commit, result discarded", "err", err)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// CommittingCache: единственная точка мутации зеркала, одним куском.
	committed := &models.CachedProfile{
		UserID:    saved.UserID,
		Username:  saved.Username,
		AvatarURL: saved.AvatarURL,
		LoggedIn:  true,
	}

	if err := s.profileCache.Commit(ctx, committed); err != nil {
		lg.Error("cache commit failed", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("profile update committed")

	return &ConfirmResult{Applied: true, Profile: committed}, nil
}

// lastKnownAvatarURL возвращает avatar_url для переноса в новый документ,
// когда новая картинка не отправлялась: сначала зеркало, затем сам документ.
// Отсутствие и того и другого — легальный случай (профиль без аватара).
func (s *Service) lastKnownAvatarURL(ctx context.Context, userID uuid.UUID) (string, error) {
	cached, ok, err := s.profileCache.Read(ctx, userID)
	if err != nil {
		return "", err
	}

	if ok && cached.AvatarURL != "" {
		return cached.AvatarURL, nil
	}

	prev, err := s.profilesStorage.ProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFoundProfile) {
			return "", nil
		}

		return "", err
	}

	return prev.AvatarURL, nil
}

// pick возвращает pending-значение, если правка запрошена, иначе базис.
func pick(pending, current string) string {
	if v := strings.TrimSpace(pending); v != "" {
		return v
	}

	return current
}
