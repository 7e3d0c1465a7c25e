// Package create реализует HTTP-обработчик для создания новых счетов пользователя.
//
// Handler принимает JSON-запрос с данными счёта, валидирует их, извлекает
// владельца из контекста и вызывает бизнес-логику создания. Сумма счёта
// вычисляется сервисом, клиентское значение суммы не принимается.
package create

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
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
)

// Service описывает интерфейс бизнес-логики создания счёта.
type Service interface {
	Create(ctx context.Context, owner string, req models.CreateInvoiceRequest) (*models.Invoice, error)
}

// Handler управляет HTTP-запросами на создание новых счетов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать новый счёт
// @Description Создает новый счёт для текущего пользователя. Сумма вычисляется по позициям. Статус sent присваивается только при явном запросе.
// @Tags Invoices
// @Accept  json
// @Produce  json
// @Param request body models.CreateInvoiceRequest true "Данные нового счёта"
// @Success 201 {object} map[string]any "Созданный счёт"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании счёта"
// @Router /invoices [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("customer", req.Customer))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	inv, err := h.service.Create(r.Context(), user.Email, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			log.Error("invalid invoice data", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("customer and items are required"))
			return
		}
		log.Error("failed to create invoice", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create invoice"))
		return
	}

	log.Info("invoice created", slog.String("id", inv.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(inv))
}
