// Package intentcreate обрабатывает создание платёжного намерения для оплаты подписки.
//
// Маршрут доступен пользователю с истёкшим пробным периодом: через шлюз
// пробного периода он не проходит, иначе заблокированный пользователь
// не смог бы оформить подписку.
package intentcreate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/invoicing-saas/internal/apperrors"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/middlewarectx"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/response"
	"github.com/magabrotheeeer/invoicing-saas/internal/lib/sl"
	subservice "github.com/magabrotheeeer/invoicing-saas/internal/services/subscription"
)

// Request представляет запрос на создание платёжного намерения.
// Валюта опциональна, по умолчанию используется валюта из конфигурации.
type Request struct {
	Currency string `json:"currency"`
}

// Service определяет интерфейс оформления подписки.
type Service interface {
	Begin(ctx context.Context, email, currency string) (*subservice.Intent, error)
}

// Handler обрабатывает запросы на создание платёжных намерений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать платёжное намерение
// @Description Создает Stripe PaymentIntent на фиксированную цену подписки. Возвращает client_secret для подтверждения на фронтенде.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request false "Валюта платежа (опционально)"
// @Success 200 {object} map[string]any "Данные платёжного намерения"
// @Failure 400 {object} response.ErrorResponse "Подписка уже оформлена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /payments/intent [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.intentcreate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	intent, err := h.service.Begin(r.Context(), user.Email, req.Currency)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadySubscribed) {
			log.Error("already subscribed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("already subscribed"))
			return
		}
		log.Error("failed to create payment intent", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create payment intent"))
		return
	}

	log.Info("payment intent created", slog.String("intent_id", intent.IntentID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"client_secret":     intent.ClientSecret,
		"payment_intent_id": intent.IntentID,
	}))
}
