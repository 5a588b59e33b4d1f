package middleware

import (
	"net/http"
	"strings"

	"github.com/SanskarM1/music-app/internal/auth"
)

// AuthBearer извлекает Bearer-токен из Authorization и кладёт "сырой" токен
// в контекст через auth.WithToken. Валидация токена — забота сервисного
// слоя (auth.Identity), мидлвар ничего не проверяет.
func AuthBearer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			if header != "" {
				const prefix = "Bearer "
				if strings.HasPrefix(header, prefix) && len(header) > len(prefix) {
					token := strings.TrimSpace(header[len(prefix):])

					if token != "" {
						r = r.WithContext(auth.WithToken(r.Context(), token))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
