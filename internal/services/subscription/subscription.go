// Package services содержит бизнес-логику оформления платной подписки
// через платёжные намерения Stripe.
//
// Сервис не хранит промежуточное состояние платежа: между созданием intent
// и подтверждением сервер ничего не записывает, поэтому ничто не мешает
// создать несколько брошенных intent. Единственная локальная мутация —
// флаг Subscribed после подтверждения успешного платежа.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/invoicing-saas/internal/apperrors"
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
	"github.com/magabrotheeeer/invoicing-saas/internal/paymentprovider"
)

// Статус intent, при котором платёж считается завершённым.
// Любой другой статус ("requires_payment_method", "processing" и т.д.)
// подтверждением не является.
const statusSucceeded = "succeeded"

// UserRepository описывает методы работы с пользователями, нужные подписке.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetSubscribed(ctx context.Context, email string) error
}

// ProviderClient определяет интерфейс платёжного провайдера.
type ProviderClient interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*paymentprovider.PaymentIntent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*paymentprovider.PaymentIntent, error)
}

// Intent содержит данные платёжного намерения для ответа клиенту.
type Intent struct {
	ClientSecret string
	IntentID     string
}

// SubscriptionService оформляет подписку по фиксированной цене.
type SubscriptionService struct {
	users           UserRepository
	provider        ProviderClient
	priceMinorUnits int64
	defaultCurrency string
	log             *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(users UserRepository, provider ProviderClient,
	priceMinorUnits int64, defaultCurrency string, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		users:           users,
		provider:        provider,
		priceMinorUnits: priceMinorUnits,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

// Begin создает платёжное намерение на фиксированную сумму в указанной валюте.
//
// Возвращает apperrors.ErrAlreadySubscribed, если подписка уже оформлена.
// Пустая валюта заменяется валютой по умолчанию, регистр приводится к нижнему.
// Сумма одинакова для любой валюты, курсы не пересчитываются.
func (s *SubscriptionService) Begin(ctx context.Context, email, currency string) (*Intent, error) {
	const op = "services.subscription.Begin"
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.Subscribed {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrAlreadySubscribed)
	}

	if currency == "" {
		currency = s.defaultCurrency
	}
	currency = strings.ToLower(currency)

	intent, err := s.provider.CreateIntent(ctx, s.priceMinorUnits, currency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("payment intent created",
		slog.String("intent_id", intent.ID), slog.String("currency", currency))
	return &Intent{
		ClientSecret: intent.ClientSecret,
		IntentID:     intent.ID,
	}, nil
}

// Confirm проверяет состояние платёжного намерения и активирует подписку.
//
// Источник истины — ответ провайдера на запрос состояния intent: подпись
// webhook здесь не проверяется, id intent приходит от клиента. Подписка
// активируется только при статусе ровно "succeeded"; любой другой статус
// возвращается как apperrors.ErrPaymentNotCompleted без каких-либо мутаций.
func (s *SubscriptionService) Confirm(ctx context.Context, email, intentID string) error {
	const op = "services.subscription.Confirm"
	if _, err := s.users.GetUserByEmail(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	intent, err := s.provider.RetrieveIntent(ctx, intentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if intent.Status != statusSucceeded {
		return fmt.Errorf("%s: status %q: %w", op, intent.Status, apperrors.ErrPaymentNotCompleted)
	}

	if err := s.users.SetSubscribed(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("subscription confirmed", slog.String("intent_id", intentID))
	return nil
}
