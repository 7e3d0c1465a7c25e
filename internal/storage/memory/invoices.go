package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/magabrotheeeer/invoicing-saas/internal/apperrors"
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
)

// InvoiceStore хранит счета в порядке создания.
type InvoiceStore struct {
	mu       sync.RWMutex
	invoices []*models.Invoice
	byID     map[string]*models.Invoice
}

// NewInvoiceStore создает пустое хранилище счетов.
func NewInvoiceStore() *InvoiceStore {
	return &InvoiceStore{
		byID: make(map[string]*models.Invoice),
	}
}

// CreateInvoice сохраняет новый счёт.
func (s *InvoiceStore) CreateInvoice(ctx context.Context, inv models.Invoice) error {
	const op = "storage.memory.CreateInvoice"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[inv.ID]; ok {
		return fmt.Errorf("%s: duplicate invoice id %s", op, inv.ID)
	}
	stored := inv
	s.invoices = append(s.invoices, &stored)
	s.byID[inv.ID] = &stored
	return nil
}

// ListByOwner возвращает все счета владельца в порядке создания.
func (s *InvoiceStore) ListByOwner(ctx context.Context, owner string) ([]*models.Invoice, error) {
	const op = "storage.memory.ListByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.Owner == owner {
			copied := *inv
			result = append(result, &copied)
		}
	}
	return result, nil
}

// FindByIDAndOwner возвращает счёт по паре (id, владелец).
//
// Возвращает apperrors.ErrInvoiceNotFound и когда id не существует,
// и когда счёт принадлежит другому пользователю — эти случаи
// намеренно неразличимы для вызывающего.
func (s *InvoiceStore) FindByIDAndOwner(ctx context.Context, id, owner string) (*models.Invoice, error) {
	const op = "storage.memory.FindByIDAndOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.byID[id]
	if !ok || inv.Owner != owner {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrInvoiceNotFound)
	}
	copied := *inv
	return &copied, nil
}

// UpdateStatus меняет статус счёта по паре (id, владелец).
func (s *InvoiceStore) UpdateStatus(ctx context.Context, id, owner, status string) error {
	const op = "storage.memory.UpdateStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.byID[id]
	if !ok || inv.Owner != owner {
		return fmt.Errorf("%s: %w", op, apperrors.ErrInvoiceNotFound)
	}
	inv.Status = status
	return nil
}
