// errors стандартизирует ответы об ошибках HTTP-слоя profile-service.
// На вход он принимает ошибку сервисного слоя (sentinel-ошибки пакета
// internal/service), а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Исключение из правила "без деталей": ErrUploadFailed и ErrPersistFailed
// несут причину отказа внешней системы в тексте ошибки (она нужна фронту,
// чтобы показать пользователю, почему правка не применилась), поэтому
// для них message — это err.Error() целиком.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/SanskarM1/music-app/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку сервисного слоя в HTTP-статус и
// унифицированный ответ для фронта.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - ErrInvalidArgument -> 400, ErrNotAuthenticated -> 401,
//     ErrNotFound -> 404, ErrBusy -> 409;
//   - ErrUploadFailed / ErrPersistFailed -> 502 (отказала внешняя система);
//   - context.Canceled -> 499, context.DeadlineExceeded -> 504;
//   - прочее -> 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, envelope("internal", "internal error")
	}

	switch {
	case stderrors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, envelope("invalid_argument", "invalid argument")
	case stderrors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized, envelope("unauthenticated", "unauthenticated")
	case stderrors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, envelope("not_found", "not found")
	case stderrors.Is(err, service.ErrBusy):
		return http.StatusConflict, envelope("busy", "profile update already in progress")
	case stderrors.Is(err, service.ErrUploadFailed):
		return http.StatusBadGateway, envelope("upload_failed", err.Error())
	case stderrors.Is(err, service.ErrPersistFailed):
		return http.StatusBadGateway, envelope("persist_failed", err.Error())
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, envelope("canceled", "canceled")
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, envelope("deadline_exceeded", "deadline exceeded")
	default:
		return http.StatusInternalServerError, envelope("internal", "internal error")
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func envelope(code, msg string) ErrorResponse {
	return ErrorResponse{Error: APIError{Code: code, Message: msg}}
}
