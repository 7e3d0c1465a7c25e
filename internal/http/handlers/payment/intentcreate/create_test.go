package intentcreate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/invoicing-saas/internal/apperrors"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/middlewarectx"
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
	subservice "github.com/magabrotheeeer/invoicing-saas/internal/services/subscription"
)

type SubscriptionServiceMock struct{ mock.Mock }

func (m *SubscriptionServiceMock) Begin(ctx context.Context, email, currency string) (*subservice.Intent, error) {
	args := m.Called(ctx, email, currency)
	if intent, ok := args.Get(0).(*subservice.Intent); ok {
		return intent, args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestIntentCreateHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		withUser       bool
		wantCurrency   string
		mockIntent     *subservice.Intent
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:         "intent created with default currency",
			body:         "",
			withUser:     true,
			wantCurrency: "",
			mockIntent: &subservice.Intent{
				ClientSecret: "pi_123_secret_abc",
				IntentID:     "pi_123",
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:         "intent created with explicit currency",
			body:         `{"currency":"eur"}`,
			withUser:     true,
			wantCurrency: "eur",
			mockIntent: &subservice.Intent{
				ClientSecret: "pi_456_secret_def",
				IntentID:     "pi_456",
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "already subscribed",
			body:           "",
			withUser:       true,
			mockErr:        apperrors.ErrAlreadySubscribed,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "already subscribed",
		},
		{
			name:           "invalid json body",
			body:           "not a json",
			withUser:       true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "no user in context",
			body:           "",
			withUser:       false,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(SubscriptionServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockIntent != nil || tt.mockErr != nil {
				serviceMock.On("Begin", mock.Anything, "user@example.com", tt.wantCurrency).
					Return(tt.mockIntent, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/payments/intent", bytes.NewReader([]byte(tt.body)))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withUser {
				ctx = context.WithValue(ctx, middlewarectx.User, &models.User{Email: "user@example.com"})
			}
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
				return
			}

			assert.Equal(t, "OK", got["status"])
			data, ok := got["data"].(map[string]any)
			assert.True(t, ok)
			assert.Equal(t, tt.mockIntent.ClientSecret, data["client_secret"])
			assert.Equal(t, tt.mockIntent.IntentID, data["payment_intent_id"])
			serviceMock.AssertExpectations(t)
		})
	}
}
