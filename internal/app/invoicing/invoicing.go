package invoicing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/invoicing-saas/internal/config"
	"github.com/magabrotheeeer/invoicing-saas/internal/lib/clock"
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

// App объединяет HTTP-сервер и зависимости приложения.
//
// Все данные живут в памяти процесса и теряются при перезапуске:
// долговременное хранилище подключается заменой реализаций репозиториев.
type App struct {
	server *http.Server
	logger *slog.Logger
}

// New собирает приложение: хранилища, сервисы, маршруты и HTTP-сервер.
func New(cfg *config.Config, logger *slog.Logger) *App {
	users := memory.NewUserStore()
	invoices := memory.NewInvoiceStore()

	clk := clock.System{}
	policy := trial.New(clk)
	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	transport := smtp.NewTransport(cfg, logger)
	providerClient := paymentprovider.NewClient(cfg.StripeSecretKey)

	authService := authservice.NewAuthService(users, jwtMaker, policy, clk)
	senderService := senderservice.NewSenderService(transport, logger)
	invoiceService := invoiceservice.NewInvoiceService(invoices, senderService, clk, logger)
	subscriptionService := subservice.NewSubscriptionService(
		users, providerClient, cfg.PriceMinorUnits, cfg.DefaultCurrency, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, policy, authService, invoiceService, subscriptionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
	}
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}
