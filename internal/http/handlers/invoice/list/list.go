// Package list реализует HTTP-обработчик выборки счетов текущего пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/invoicing-saas/internal/http/middlewarectx"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/response"
	"github.com/magabrotheeeer/invoicing-saas/internal/lib/sl"
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
)

// Service описывает интерфейс бизнес-логики выборки счетов.
type Service interface {
	List(ctx context.Context, owner string) ([]*models.Invoice, error)
}

// Handler управляет HTTP-запросами на выборку счетов.
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
// @Summary Список счетов пользователя
// @Description Возвращает все счета текущего пользователя в порядке создания.
// @Tags Invoices
// @Produce  json
// @Success 200 {object} map[string]any "Счета пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /invoices [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.list"
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

	invoices, err := h.service.List(r.Context(), user.Email)
	if err != nil {
		log.Error("failed to list invoices", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list invoices"))
		return
	}

	log.Info("invoices listed", slog.Int("count", len(invoices)))
	render.JSON(w, r, response.StatusOKWithData(invoices))
}
