package invoicing

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

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/invoicing-saas/internal/config"
	"github.com/magabrotheeeer/invoicing-saas/internal/lib/jwt"
	"github.com/magabrotheeeer/invoicing-saas/internal/lib/smtp"
	"github.com/magabrotheeeer/invoicing-saas/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/invoicing-saas/internal/services/auth"
	invoiceservice "github.com/magabrotheeeer/invoicing-saas/internal/services/invoice"
	senderservice "github.com/magabrotheeeer/invoicing-saas/internal/services/sender"
	subservice "github.com/magabrotheeeer/invoicing-saas/internal/services/subscription"
	"github.com/magabrotheeeer/invoicing-saas/internal/services/trial"
	"github.com/magabrotheeeer/invoicing-saas/internal/storage/memory"
)

// stepClock — управляемые часы для проверки пробного периода.
type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// providerStub всегда возвращает завершённый платёж.
type providerStub struct{}

func (providerStub) CreateIntent(_ context.Context, amount int64, currency string) (*paymentprovider.PaymentIntent, error) {
	return &paymentprovider.PaymentIntent{
		ID:           "pi_test",
		ClientSecret: "pi_test_secret",
		Status:       "requires_payment_method",
		Amount:       amount,
		Currency:     currency,
	}, nil
}

func (providerStub) RetrieveIntent(_ context.Context, intentID string) (*paymentprovider.PaymentIntent, error) {
	return &paymentprovider.PaymentIntent{
		ID:           intentID,
		ClientSecret: intentID + "_secret",
		Status:       "succeeded",
	}, nil
}

func newTestRouter(t *testing.T, clk *stepClock) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	cfg := &config.Config{}

	users := memory.NewUserStore()
	invoices := memory.NewInvoiceStore()
	policy := trial.New(clk)
	jwtMaker := jwt.NewMaker("test-secret", time.Hour)
	transport := smtp.NewTransport(cfg, logger)

	authService := authservice.NewAuthService(users, jwtMaker, policy, clk)
	senderService := senderservice.NewSenderService(transport, logger)
	invoiceService := invoiceservice.NewInvoiceService(invoices, senderService, clk, logger)
	subscriptionService := subservice.NewSubscriptionService(users, providerStub{}, 599, "gbp", logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, policy, authService, invoiceService, subscriptionService)
	return router
}

func doJSON(t *testing.T, router chi.Router, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var got map[string]any
	err := json.NewDecoder(rec.Body).Decode(&got)
	require.NoError(t, err)
	return rec, got
}

// Полный путь пользователя: регистрация, вход, работа со счетами в пробный
// период, блокировка после его истечения и разблокировка после оплаты.
//
// Глобальный лимитер частоты пропускает всплеск из трёх запросов, поэтому
// через защищённые группы здесь проходит ровно три вызова: создание счёта,
// подтверждение оплаты и итоговая выборка. Отказ 403 токен лимитера
// не расходует — шлюз пробного периода стоит раньше. Новый защищённый
// запрос в этом сценарии потребует паузы на восполнение токена.
func TestTrialLifecycle(t *testing.T) {
	clk := &stepClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	router := newTestRouter(t, clk)

	// Регистрация и вход
	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/register", "",
		`{"email":"user@example.com","password":"password123","mobile":"555"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, got := doJSON(t, router, http.MethodPost, "/api/v1/login", "",
		`{"email":"user@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	data := got["data"].(map[string]any)
	token := data["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, false, data["trial_expired"])

	// Пробный период активен: счёт создаётся
	rec, got = doJSON(t, router, http.MethodPost, "/api/v1/invoices", token,
		`{"customer":"Acme Ltd","customerEmail":"billing@acme.test","items":[{"description":"Widget","quantity":2,"price":10}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	invoice := got["data"].(map[string]any)
	assert.Equal(t, float64(20), invoice["total"])
	assert.Equal(t, "draft", invoice["status"])

	// Спустя восемь дней пробный период истёк
	clk.Advance(8 * 24 * time.Hour)

	rec, got = doJSON(t, router, http.MethodGet, "/api/v1/invoices", token, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "trial expired, please subscribe to continue", got["error"])

	// Оплата подписки возможна и после истечения
	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/payments/confirm", token,
		`{"payment_intent_id":"pi_test"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Подписка активна: доступ восстановлен навсегда
	clk.Advance(30 * 24 * time.Hour)

	rec, got = doJSON(t, router, http.MethodGet, "/api/v1/invoices", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := got["data"].([]any)
	require.Len(t, list, 1)
}
