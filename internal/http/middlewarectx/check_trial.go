package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/invoicing-saas/internal/http/response"
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
)

// TrialPolicy определяет интерфейс проверки пробного периода.
type TrialPolicy interface {
	IsExpired(user *models.User) bool
}

// TrialGateMiddleware создает middleware, которое блокирует операции со счетами
// для пользователей с истёкшим пробным периодом и без подписки.
//
// Middleware ожидает, что JWTMiddleware уже положил учётную запись в контекст.
// Платёжные маршруты через это middleware не проходят: пользователь
// с истёкшим пробным периодом должен иметь возможность оформить подписку.
func TrialGateMiddleware(log *slog.Logger, policy TrialPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.TrialGateMiddleware"
			log := log.With(slog.String("op", op))

			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if policy.IsExpired(user) {
				log.Error("trial expired, access denied", slog.String("user", user.Email))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("trial expired, please subscribe to continue"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
