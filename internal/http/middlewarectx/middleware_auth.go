// Package middlewarectx содержит HTTP middleware: определение вызывающего
// пользователя по токену и ограничение частоты запросов.
package middlewarectx

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/station-directory/internal/http/response"
	"github.com/magabrotheeeer/station-directory/internal/identity"
	"github.com/magabrotheeeer/station-directory/internal/lib/sl"
)

const msgInvalidToken = "invalid or expired token"

// IdentityMiddleware возвращает HTTP middleware, который проверяет токен
// из заголовка Authorization и кладёт идентификатор пользователя в контекст.
//
// Запрос без заголовка пропускается без идентификатора: решение о доступе
// принимает сама операция. Неверный или отозванный токен отклоняется
// с HTTP 401, недоступность списка отозванных даёт HTTP 503.
func IdentityMiddleware(verifier Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.IdentityMiddleware"

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Fail(response.CodeUnauthenticated, "invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			uid, err := verifier.Verify(r.Context(), tokenStr)
			if errors.Is(err, identity.ErrUnavailable) {
				log.Error("failed to verify token", sl.Err(err))
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.Fail(response.CodeInternal, "identity check is temporarily unavailable"))
				return
			}
			if err != nil {
				log.Warn(msgInvalidToken, sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Fail(response.CodeUnauthenticated, msgInvalidToken))
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithCaller(r.Context(), uid)))
		})
	}
}
