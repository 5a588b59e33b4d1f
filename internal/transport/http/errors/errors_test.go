package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SanskarM1/music-app/internal/service"
)

func TestToHTTP_BaseMapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"unauth", service.ErrNotAuthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"not_found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"busy", service.ErrBusy, http.StatusConflict, "busy"},
		{"upload_failed", service.ErrUploadFailed, http.StatusBadGateway, "upload_failed"},
		{"persist_failed", service.ErrPersistFailed, http.StatusBadGateway, "persist_failed"},
		{"canceled", context.Canceled, StatusClientClosedRequest, "canceled"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded"},
		{"internal", service.ErrInternal, http.StatusInternalServerError, "internal"},
		{"unknown", stderrors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

// Причина отказа внешней системы попадает в message целиком.
func TestToHTTP_FailureKinds_KeepCause(t *testing.T) {
	in := fmt.Errorf("%w: %v", service.ErrUploadFailed, stderrors.New("permission denied"))
	gotStatus, resp := ToHTTP(in)
	require.Equal(t, http.StatusBadGateway, gotStatus)
	require.Equal(t, "upload failed: permission denied", resp.Error.Message)

	in = fmt.Errorf("%w: %v", service.ErrPersistFailed, stderrors.New("quota exceeded"))
	_, resp = ToHTTP(in)
	require.Equal(t, "persist failed: quota exceeded", resp.Error.Message)
}

// Детали неизвестных ошибок не утекают на клиент.
func TestToHTTP_Unknown_NoDetailsLeak(t *testing.T) {
	_, resp := ToHTTP(stderrors.New("pgx: connection refused to 10.0.0.3"))
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestWriteError_PropagatesRequestID(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "rid-123")

	WriteError(rr, req, service.ErrNotFound)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.Contains(t, rr.Body.String(), `"request_id":"rid-123"`)
}
