package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"

	"github.com/SanskarM1/music-app/internal/storage"
)

// avatarKey — детерминированный ключ объекта, производный только от userID.
// Повторная загрузка перезаписывает предыдущий аватар того же пользователя.
func avatarKey(userID uuid.UUID) string {
	return path.Join("avatars", userID.String())
}

// UploadAvatar загружает байты изображения в бакет под ключом avatars/<userID>.
// Тип содержимого определяется по самим байтам и валидируется по allow-list
// из конфига, размер — по ограничению MaxSizeBytes.
// Одна попытка PUT, без ретраев; ответственность за повтор — на вызывающем.
func (s *AvatarsStorage) UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte) (string, error) {
	const op = "storage/minio/avatars/UploadAvatar"

	if userID == uuid.Nil || len(data) == 0 {
		return "", storage.ErrInvalidArgument
	}

	if int64(len(data)) > s.cfg.Avatar.MaxSizeBytes {
		return "", storage.ErrInvalidArgument
	}

	contentType := http.DetectContentType(data)
	if !isAllowedContentType(s.cfg.Avatar.AllowedContentTypes, contentType) {
		return "", storage.ErrInvalidArgument
	}

	key := avatarKey(userID)

	_, err := s.client.PutObject(ctx, s.cfg.S3.Bucket, key,
		bytes.NewReader(data), int64(len(data)),
		mclient.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.publicURL(key), nil
}

// publicURL собирает стабильный URL объекта: от PublicBaseURL, если тот задан,
// иначе — от endpoint клиента и имени бакета.
func (s *AvatarsStorage) publicURL(key string) string {
	if base := strings.TrimRight(s.cfg.S3.PublicBaseURL, "/"); base != "" {
		return base + "/" + key
	}

	endpoint := strings.TrimRight(s.client.EndpointURL().String(), "/")

	return endpoint + "/" + s.cfg.S3.Bucket + "/" + key
}

// isAllowedContentType проверяет, что тип содержимого входит в allow-list.
func isAllowedContentType(allow []string, contentType string) bool {
	for _, a := range allow {
		if a == contentType {
			return true
		}
	}

	return false
}
