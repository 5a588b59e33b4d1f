package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SanskarM1/music-app/internal/service"
)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	Service *service.Service

	// maxImageBytes ограничивает размер multipart-тела запроса
	// подтверждения правок (картинка + мелкие текстовые поля).
	maxImageBytes int64
}

func New(svc *service.Service, maxImageBytes int64) *Handlers {
	return &Handlers{Service: svc, maxImageBytes: maxImageBytes}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
