package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/invoicing-saas/internal/apperrors"
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
	"github.com/magabrotheeeer/invoicing-saas/internal/paymentprovider"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) SetSubscribed(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) CreateIntent(ctx context.Context, amount int64, currency string) (*paymentprovider.PaymentIntent, error) {
	args := m.Called(ctx, amount, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.PaymentIntent), args.Error(1)
}

func (m *ProviderMock) RetrieveIntent(ctx context.Context, intentID string) (*paymentprovider.PaymentIntent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.PaymentIntent), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(users *UserRepoMock, provider *ProviderMock) *SubscriptionService {
	return NewSubscriptionService(users, provider, 599, "gbp", newNoopLogger())
}

func TestSubscriptionService_Begin(t *testing.T) {
	t.Run("already subscribed", func(t *testing.T) {
		users := new(UserRepoMock)
		provider := new(ProviderMock)
		svc := newService(users, provider)

		users.On("GetUserByEmail", mock.Anything, "user@example.com").
			Return(&models.User{Email: "user@example.com", Subscribed: true}, nil).Once()

		_, err := svc.Begin(context.Background(), "user@example.com", "gbp")
		assert.ErrorIs(t, err, apperrors.ErrAlreadySubscribed)
		provider.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fixed amount with default lowercased currency", func(t *testing.T) {
		users := new(UserRepoMock)
		provider := new(ProviderMock)
		svc := newService(users, provider)

		users.On("GetUserByEmail", mock.Anything, "user@example.com").
			Return(&models.User{Email: "user@example.com"}, nil).Twice()
		provider.On("CreateIntent", mock.Anything, int64(599), "gbp").
			Return(&paymentprovider.PaymentIntent{ID: "pi_1", ClientSecret: "cs_1"}, nil).Once()
		provider.On("CreateIntent", mock.Anything, int64(599), "eur").
			Return(&paymentprovider.PaymentIntent{ID: "pi_2", ClientSecret: "cs_2"}, nil).Once()

		intent, err := svc.Begin(context.Background(), "user@example.com", "")
		require.NoError(t, err)
		assert.Equal(t, "pi_1", intent.IntentID)
		assert.Equal(t, "cs_1", intent.ClientSecret)

		intent, err = svc.Begin(context.Background(), "user@example.com", "EUR")
		require.NoError(t, err)
		assert.Equal(t, "pi_2", intent.IntentID)
		provider.AssertExpectations(t)
	})
}

func TestSubscriptionService_Confirm(t *testing.T) {
	tests := []struct {
		name           string
		intentStatus   string
		wantErr        error
		wantSubscribed bool
	}{
		{
			name:           "succeeded activates subscription",
			intentStatus:   "succeeded",
			wantSubscribed: true,
		},
		{
			name:         "requires_payment_method is not completed",
			intentStatus: "requires_payment_method",
			wantErr:      apperrors.ErrPaymentNotCompleted,
		},
		{
			name:         "processing is not completed",
			intentStatus: "processing",
			wantErr:      apperrors.ErrPaymentNotCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			provider := new(ProviderMock)
			svc := newService(users, provider)

			users.On("GetUserByEmail", mock.Anything, "user@example.com").
				Return(&models.User{Email: "user@example.com"}, nil).Once()
			provider.On("RetrieveIntent", mock.Anything, "pi_1").
				Return(&paymentprovider.PaymentIntent{ID: "pi_1", Status: tt.intentStatus}, nil).Once()
			if tt.wantSubscribed {
				users.On("SetSubscribed", mock.Anything, "user@example.com").Return(nil).Once()
			}

			err := svc.Confirm(context.Background(), "user@example.com", "pi_1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				users.AssertNotCalled(t, "SetSubscribed", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			users.AssertExpectations(t)
		})
	}
}
