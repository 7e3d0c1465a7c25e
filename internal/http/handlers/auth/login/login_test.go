package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/invoicing-saas/internal/apperrors"
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
	authservice "github.com/magabrotheeeer/invoicing-saas/internal/services/auth"
)

type AuthServiceMock struct{ mock.Mock }

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (*authservice.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if res, ok := args.Get(0).(*authservice.LoginResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	trialStart := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockResult     *authservice.LoginResult
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "successful login with active trial",
			requestBody: Request{Email: "user@example.com", Password: "password123"},
			mockResult: &authservice.LoginResult{
				Token: "jwt-token",
				User: &models.User{
					Email:      "user@example.com",
					Mobile:     "555",
					TrialStart: trialStart,
				},
				TrialExpired: false,
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "successful login with expired trial",
			requestBody: Request{Email: "user@example.com", Password: "password123"},
			mockResult: &authservice.LoginResult{
				Token: "jwt-token",
				User: &models.User{
					Email:      "user@example.com",
					TrialStart: trialStart,
				},
				TrialExpired: true,
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "wrong password",
			requestBody:    Request{Email: "user@example.com", Password: "wrongpass"},
			mockErr:        apperrors.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid credentials",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "missing password",
			requestBody:    Request{Email: "user@example.com"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			handler := New(newNoopLogger(), authMock)

			if req, ok := tt.requestBody.(Request); ok && req.Email != "" && req.Password != "" {
				authMock.On("Login", mock.Anything, req.Email, req.Password).
					Return(tt.mockResult, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
				return
			}

			assert.Equal(t, "OK", got["status"])
			data, ok := got["data"].(map[string]any)
			assert.True(t, ok)
			assert.Equal(t, tt.mockResult.Token, data["token"])
			assert.Equal(t, tt.mockResult.TrialExpired, data["trial_expired"])
			authMock.AssertExpectations(t)
		})
	}
}
