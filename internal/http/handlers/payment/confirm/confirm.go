// Package confirm обрабатывает подтверждение оплаты подписки.
//
// Источник истины о платеже — запрос состояния intent у провайдера;
// подпись webhook не проверяется, id intent приходит от клиента.
// Это унаследованное поведение, внешняя система должна его ужесточить.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/invoicing-saas/internal/apperrors"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/middlewarectx"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/response"
	"github.com/magabrotheeeer/invoicing-saas/internal/lib/sl"
)

// Request представляет запрос на подтверждение подписки.
type Request struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

// Service определяет интерфейс подтверждения подписки.
type Service interface {
	Confirm(ctx context.Context, email, intentID string) error
}

// Handler обрабатывает запросы на подтверждение подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтвердить подписку
// @Description Проверяет статус платёжного намерения у Stripe и активирует подписку, если платёж завершён.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "ID платёжного намерения"
// @Success 200 {object} map[string]any "Подписка активирована"
// @Failure 400 {object} response.ErrorResponse "Платёж не завершён"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /payments/confirm [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Confirm(r.Context(), user.Email, req.PaymentIntentID); err != nil {
		if errors.Is(err, apperrors.ErrPaymentNotCompleted) {
			log.Error("payment not completed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment not completed"))
			return
		}
		log.Error("failed to confirm subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to confirm subscription"))
		return
	}

	log.Info("subscription confirmed", slog.String("email", user.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message":    "subscription confirmed",
		"subscribed": true,
	}))
}
