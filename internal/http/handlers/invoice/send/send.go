// Package send реализует HTTP-обработчик отправки счёта клиенту по почте.
//
// Статус счёта меняется на sent только после успешной доставки письма.
// Счёт другого пользователя неотличим по ответу от несуществующего.
package send

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/invoicing-saas/internal/apperrors"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/middlewarectx"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/response"
	"github.com/magabrotheeeer/invoicing-saas/internal/lib/sl"
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
)

// Service описывает интерфейс бизнес-логики отправки счёта.
type Service interface {
	Send(ctx context.Context, id, owner string) (*models.Invoice, error)
}

// Handler управляет HTTP-запросами на отправку счетов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отправить счёт клиенту
// @Description Отправляет счёт на email клиента и помечает его отправленным. При ошибке доставки статус не меняется.
// @Tags Invoices
// @Produce  json
// @Param id path string true "ID счёта"
// @Success 200 {object} map[string]any "Отправленный счёт"
// @Failure 400 {object} response.ErrorResponse "У счёта не указан email клиента"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Счёт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка доставки письма"
// @Router /invoices/{id}/send [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.send"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	inv, err := h.service.Send(r.Context(), id, user.Email)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvoiceNotFound):
			log.Error("invoice not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("invoice not found"))
		case errors.Is(err, apperrors.ErrMissingRecipient):
			log.Error("missing recipient", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("customer email is missing"))
		default:
			log.Error("failed to send invoice", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to send invoice email"))
		}
		return
	}

	log.Info("invoice sent", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "invoice sent",
		"invoice": inv,
	}))
}
