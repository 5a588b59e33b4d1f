package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	apierrors "github.com/SanskarM1/music-app/internal/transport/http/errors"

	"github.com/SanskarM1/music-app/internal/models"
	"github.com/SanskarM1/music-app/internal/service"
)

// profileResponse — полный профиль (GET /v1/profile).
type profileResponse struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	BioLink   string    `json:"bio_link"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// mirrorResponse — состояние локального зеркала после применения правок.
type mirrorResponse struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	LoggedIn  bool   `json:"logged_in"`
}

func profileFromModel(p *models.Profile) profileResponse {
	return profileResponse{
		UserID:    p.UserID.String(),
		Username:  p.Username,
		Bio:       p.Bio,
		BioLink:   p.BioLink,
		Email:     p.Email,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func mirrorFromModel(p *models.CachedProfile) mirrorResponse {
	return mirrorResponse{
		UserID:    p.UserID.String(),
		Username:  p.Username,
		AvatarURL: p.AvatarURL,
		LoggedIn:  p.LoggedIn,
	}
}

// GetProfile — GET /v1/profile: профиль текущего пользователя.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Service.Profile(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileFromModel(profile))
}

// ConfirmEdit — POST /v1/profile/confirm: подтверждение правок профиля.
//
// Тело — multipart/form-data:
//   - username, bio, bio_link — текстовые поля (пустое значение = без правки);
//   - image — опциональная часть с новой аватаркой.
//
// Ответы:
//   - 200 + зеркало профиля, если правки применены;
//   - 204, если буфер пуст и запуск не состоялся;
//   - иначе — унифицированная ошибка.
func (h *Handlers) ConfirmEdit(w http.ResponseWriter, r *http.Request) {
	// Жёсткий потолок на тело: картинка + небольшой запас на текстовые поля.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+1<<20)

	if err := r.ParseMultipartForm(h.maxImageBytes + 1<<20); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	image, err := readImagePart(r)
	if err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	// Базис буфера — текущее состояние профиля; отсутствие документа
	// легально (первое сохранение), базис остаётся пустым.
	var baseName, baseBio, baseEmail string
	if current, err := h.Service.Profile(r.Context()); err == nil {
		baseName, baseBio, baseEmail = current.Username, current.Bio, current.Email
	} else if !errors.Is(err, service.ErrNotFound) {
		apierrors.WriteError(w, r, err)
		return
	}

	buf := service.StartEdit(baseName, baseBio, baseEmail)
	buf.PendingName = r.FormValue("username")
	buf.PendingBio = r.FormValue("bio")
	buf.PendingBioLink = r.FormValue("bio_link")
	buf.PendingImage = image

	res, err := h.Service.ConfirmEdit(r.Context(), buf)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if !res.Applied {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, mirrorFromModel(res.Profile))
}

// readImagePart возвращает содержимое части "image" или nil, если её нет.
func readImagePart(r *http.Request) ([]byte, error) {
	file, _, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
