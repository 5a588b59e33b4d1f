package handlers_test

// E2E-тесты HTTP-слоя: реальный роутер + реальный сервис, внешние
// системы замоканы. Проверяем коды ответов, формат тел и проброс
// текста ошибок внешних систем.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/SanskarM1/music-app/internal/models"
	"github.com/SanskarM1/music-app/internal/service"
	"github.com/SanskarM1/music-app/internal/storage"
	transport "github.com/SanskarM1/music-app/internal/transport/http"
	"github.com/SanskarM1/music-app/mocks"
)

type env struct {
	profiles *mocks.MockProfilesStorage
	avatars  *mocks.MockAvatarsStorage
	cache    *mocks.MockProfileCache
	identity *mocks.MockIdentity
	handler  http.Handler
}

func newEnv(t *testing.T) (*env, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)

	e := &env{
		profiles: mocks.NewMockProfilesStorage(ctrl),
		avatars:  mocks.NewMockAvatarsStorage(ctrl),
		cache:    mocks.NewMockProfileCache(ctrl),
		identity: mocks.NewMockIdentity(ctrl),
	}

	svc := service.New(e.profiles, e.avatars, e.cache, e.identity)
	e.handler = transport.NewRouter(svc, transport.Options{
		Timeout:       5 * time.Second,
		MaxImageBytes: 5 << 20,
	})

	return e, ctrl
}

// multipartBody собирает multipart/form-data тело из полей и опциональной картинки.
func multipartBody(t *testing.T, fields map[string]string, image []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "avatar.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

type errEnvelope struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func TestGetProfile_Unauthenticated(t *testing.T) {
	e, ctrl := newEnv(t)
	defer ctrl.Finish()

	e.identity.EXPECT().CurrentUserID(gomock.Any()).Return(uuid.Nil, false)

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/profile", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)

	var env errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "unauthenticated", env.Error.Code)
}

func TestGetProfile_OK(t *testing.T) {
	e, ctrl := newEnv(t)
	defer ctrl.Finish()

	uid := uuid.New()
	e.identity.EXPECT().CurrentUserID(gomock.Any()).Return(uid, true)
	e.profiles.EXPECT().ProfileByID(gomock.Any(), uid).Return(&models.Profile{
		UserID:    uid,
		Username:  "alex",
		Bio:       "hello",
		Email:     "user@example.com",
		AvatarURL: "https://cdn/avatars/" + uid.String(),
	}, nil)

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/profile", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, uid.String(), got["user_id"])
	require.Equal(t, "alex", got["username"])
	require.Equal(t, "hello", got["bio"])
}

func TestGetProfile_NotFound(t *testing.T) {
	e, ctrl := newEnv(t)
	defer ctrl.Finish()

	uid := uuid.New()
	e.identity.EXPECT().CurrentUserID(gomock.Any()).Return(uid, true)
	e.profiles.EXPECT().ProfileByID(gomock.Any(), uid).Return(nil, storage.ErrNotFoundProfile)

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/profile", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
}

// Пустой буфер (все поля пустые, картинки нет) -> 204, запуск не состоялся.
func TestConfirmEdit_EmptyBuffer_204(t *testing.T) {
	e, ctrl := newEnv(t)
	defer ctrl.Finish()

	uid := uuid.New()
	// Базис для буфера хендлер читает из текущего профиля.
	e.identity.EXPECT().CurrentUserID(gomock.Any()).Return(uid, true)
	e.profiles.EXPECT().ProfileByID(gomock.Any(), uid).Return(&models.Profile{UserID: uid, Username: "alex"}, nil)

	body, ct := multipartBody(t, map[string]string{"username": "", "bio": ""}, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/profile/confirm", body)
	req.Header.Set("Content-Type", ct)

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Empty(t, rr.Body.String())
}

// Правка имени без картинки: 200 + зеркало с новым именем и прежним аватаром.
func TestConfirmEdit_NameOnly_200(t *testing.T) {
	e, ctrl := newEnv(t)
	defer ctrl.Finish()

	uid := uuid.New()
	const oldAvatar = "https://cdn/avatars/old"

	e.identity.EXPECT().CurrentUserID(gomock.Any()).Return(uid, true).Times(2)
	e.profiles.EXPECT().ProfileByID(gomock.Any(), uid).Return(&models.Profile{
		UserID: uid, Username: "old", Bio: "bio", Email: "user@example.com", AvatarURL: oldAvatar,
	}, nil)
	e.cache.EXPECT().Read(gomock.Any(), uid).Return(&models.CachedProfile{
		UserID: uid, Username: "old", AvatarURL: oldAvatar, LoggedIn: true,
	}, true, nil)
	e.profiles.EXPECT().
		SaveProfile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *models.Profile) (*models.Profile, error) {
			return p, nil
		})
	e.cache.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(nil)

	body, ct := multipartBody(t, map[string]string{"username": "alex"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/profile/confirm", body)
	req.Header.Set("Content-Type", ct)

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "alex", got["username"])
	require.Equal(t, oldAvatar, got["avatar_url"])
	require.Equal(t, true, got["logged_in"])
}

// Отказ блоб-хранилища: 502, текст причины доходит до клиента.
func TestConfirmEdit_UploadFailure_502(t *testing.T) {
	e, ctrl := newEnv(t)
	defer ctrl.Finish()

	uid := uuid.New()
	e.identity.EXPECT().CurrentUserID(gomock.Any()).Return(uid, true).Times(2)
	e.profiles.EXPECT().ProfileByID(gomock.Any(), uid).Return(&models.Profile{UserID: uid}, nil)
	e.avatars.EXPECT().
		UploadAvatar(gomock.Any(), uid, gomock.Any()).
		Return("", errors.New("permission denied"))

	body, ct := multipartBody(t, nil, []byte{0x89, 0x50, 0x4E, 0x47})
	req := httptest.NewRequest(http.MethodPost, "/v1/profile/confirm", body)
	req.Header.Set("Content-Type", ct)

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadGateway, rr.Code)

	var env errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "upload_failed", env.Error.Code)
	require.Equal(t, "upload failed: permission denied", env.Error.Message)
}

// Успех с картинкой: avatar_url в ответе — ровно URL загрузки.
func TestConfirmEdit_WithImage_200(t *testing.T) {
	e, ctrl := newEnv(t)
	defer ctrl.Finish()

	uid := uuid.New()
	uploaded := "https://cdn/avatars/" + uid.String()
	img := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

	e.identity.EXPECT().CurrentUserID(gomock.Any()).Return(uid, true).Times(2)
	e.profiles.EXPECT().ProfileByID(gomock.Any(), uid).Return(nil, storage.ErrNotFoundProfile)
	e.avatars.EXPECT().UploadAvatar(gomock.Any(), uid, img).Return(uploaded, nil)
	e.profiles.EXPECT().
		SaveProfile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *models.Profile) (*models.Profile, error) {
			return p, nil
		})
	e.cache.EXPECT().Commit(gomock.Any(), gomock.Any()).Return(nil)

	body, ct := multipartBody(t, map[string]string{"username": "alex"}, img)
	req := httptest.NewRequest(http.MethodPost, "/v1/profile/confirm", body)
	req.Header.Set("Content-Type", ct)

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, uploaded, got["avatar_url"])
}

// Тело без multipart -> 400.
func TestConfirmEdit_BadBody_400(t *testing.T) {
	e, ctrl := newEnv(t)
	defer ctrl.Finish()

	req := httptest.NewRequest(http.MethodPost, "/v1/profile/confirm", bytes.NewBufferString("not a form"))
	req.Header.Set("Content-Type", "text/plain")

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}
