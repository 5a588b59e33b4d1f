package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SanskarM1/music-app/internal/models"
	"github.com/SanskarM1/music-app/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// profileColumns — единый список колонок таблицы profiles,
// используемый в SELECT/RETURNING, чтобы гарантировать одинаковый порядок сканирования.
const profileColumns = `
user_id, username, bio, bio_link, email, avatar_url, created_at, updated_at
`

// scanProfile сканирует одну строку профиля из результата запроса в доменную модель.
func scanProfile(row pgx.Row) (*models.Profile, error) {
	var profile models.Profile

	if err := row.Scan(
		&profile.UserID,
		&profile.Username,
		&profile.Bio,
		&profile.BioLink,
		&profile.Email,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &profile, nil
}

// SaveProfile полностью перезаписывает документ профиля по user_id.
// Запись создаётся, если её ещё нет; иначе каждая колонка получает значение
// из profile (без merge), updated_at сдвигается, created_at сохраняется.
// Ошибки: storage.ErrInvalidArgument при нулевом user_id, иные — как есть.
func (s *ProfilesStorage) SaveProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	const op = "storage/postgres/profiles/SaveProfile"

	if profile == nil || profile.UserID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	q := `
	INSERT INTO profiles (user_id, username, bio, bio_link, email, avatar_url)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id) DO UPDATE SET
		username   = EXCLUDED.username,
		bio        = EXCLUDED.bio,
		bio_link   = EXCLUDED.bio_link,
		email      = EXCLUDED.email,
		avatar_url = EXCLUDED.avatar_url,
		updated_at = now()
	RETURNING
	` + profileColumns

	row := s.db.QueryRow(ctx, q,
		profile.UserID,
		profile.Username,
		profile.Bio,
		profile.BioLink,
		profile.Email,
		profile.AvatarURL,
	)

	result, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// ProfileByID возвращает профиль по user_id.
// Ошибки: storage.ErrNotFoundProfile, либо ошибка выполнения запроса.
func (s *ProfilesStorage) ProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	const op = "storage/postgres/profiles/ProfileByID"

	q := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	row := s.db.QueryRow(ctx, q, userID)

	result, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFoundProfile)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}
