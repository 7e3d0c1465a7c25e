// Package services содержит бизнес-логику жизненного цикла счёта:
// создание, выборку по владельцу и отправку клиенту.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/invoicing-saas/internal/apperrors"
	"github.com/magabrotheeeer/invoicing-saas/internal/lib/clock"
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
)

// InvoiceRepository определяет методы для работы со счетами в хранилище.
type InvoiceRepository interface {
	// CreateInvoice сохраняет новый счёт.
	CreateInvoice(ctx context.Context, inv models.Invoice) error
	// ListByOwner возвращает все счета владельца в порядке создания.
	ListByOwner(ctx context.Context, owner string) ([]*models.Invoice, error)
	// FindByIDAndOwner возвращает счёт по паре (id, владелец).
	FindByIDAndOwner(ctx context.Context, id, owner string) (*models.Invoice, error)
	// UpdateStatus меняет статус счёта по паре (id, владелец).
	UpdateStatus(ctx context.Context, id, owner, status string) error
}

// Sender описывает интерфейс отправки счёта клиенту.
type Sender interface {
	SendInvoice(invoice *models.Invoice) error
}

// InvoiceService реализует жизненный цикл счёта: draft → sent.
type InvoiceService struct {
	repo      InvoiceRepository
	sender    Sender
	clock     clock.Clock
	log       *slog.Logger
	sendLocks sync.Map // id счёта → *sync.Mutex
}

// NewInvoiceService создает новый экземпляр InvoiceService.
func NewInvoiceService(repo InvoiceRepository, sender Sender, clk clock.Clock, log *slog.Logger) *InvoiceService {
	return &InvoiceService{
		repo:   repo,
		sender: sender,
		clock:  clk,
		log:    log,
	}
}

// Create создает новый счёт для владельца.
//
// Сумма вычисляется один раз как Σ quantity × price по всем позициям.
// Статус sent присваивается только при запрошенном статусе ровно "sent" —
// это метка, выставляемая при создании, письмо при этом не отправляется.
func (s *InvoiceService) Create(ctx context.Context, owner string, req models.CreateInvoiceRequest) (*models.Invoice, error) {
	const op = "services.invoice.Create"
	if req.Customer == "" || len(req.Items) == 0 {
		return nil, fmt.Errorf("%s: customer and items are required: %w", op, apperrors.ErrValidation)
	}

	var total float64
	for _, item := range req.Items {
		total += item.Quantity * item.UnitPrice
	}

	status := models.InvoiceStatusDraft
	if req.Status == models.InvoiceStatusSent {
		status = models.InvoiceStatusSent
	}

	inv := models.Invoice{
		ID:            uuid.NewString(),
		Owner:         owner,
		Customer:      req.Customer,
		CustomerEmail: req.CustomerEmail,
		Items:         req.Items,
		Notes:         req.Notes,
		Total:         total,
		Date:          s.clock.Now().UTC(),
		Status:        status,
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created new invoice", slog.String("id", inv.ID), slog.Float64("total", inv.Total))
	return &inv, nil
}

// List возвращает все счета владельца в порядке создания.
func (s *InvoiceService) List(ctx context.Context, owner string) ([]*models.Invoice, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// Send отправляет счёт клиенту и помечает его отправленным.
//
// Статус меняется только после успешной доставки: при ошибке отправки счёт
// остаётся без изменений и операцию можно повторить. Чтение и запись статуса
// сериализуются замком по id счёта, чтобы два одновременных вызова Send
// не гнали письмо дважды.
func (s *InvoiceService) Send(ctx context.Context, id, owner string) (*models.Invoice, error) {
	const op = "services.invoice.Send"

	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	inv, err := s.repo.FindByIDAndOwner(ctx, id, owner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sender.SendInvoice(inv); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.UpdateStatus(ctx, id, owner, models.InvoiceStatusSent); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	inv.Status = models.InvoiceStatusSent

	s.log.Info("invoice sent", slog.String("id", id), slog.String("to", inv.CustomerEmail))
	return inv, nil
}

func (s *InvoiceService) lockFor(id string) *sync.Mutex {
	v, _ := s.sendLocks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}
