// Package invoicing предоставляет сборку и маршруты основного приложения.
package invoicing

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/invoicing-saas/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/handlers/invoice/create"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/handlers/invoice/health"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/handlers/invoice/list"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/handlers/invoice/send"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/handlers/payment/confirm"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/handlers/payment/intentcreate"
	"github.com/magabrotheeeer/invoicing-saas/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/invoicing-saas/internal/services/auth"
	invoiceservice "github.com/magabrotheeeer/invoicing-saas/internal/services/invoice"
	subservice "github.com/magabrotheeeer/invoicing-saas/internal/services/subscription"
	"github.com/magabrotheeeer/invoicing-saas/internal/services/trial"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Маршруты счетов проходят через шлюз пробного периода, платёжные — нет:
// пользователь с истёкшим пробным периодом должен иметь возможность оплатить.
func RegisterRoutes(r chi.Router, logger *slog.Logger, policy *trial.Policy,
	authService *authservice.AuthService, invoiceService *invoiceservice.InvoiceService,
	subscriptionService *subservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Операции со счетами: JWT + проверка пробного периода
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.TrialGateMiddleware(logger, policy))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/invoices", list.New(logger, invoiceService).ServeHTTP)
			r.Post("/invoices", create.New(logger, invoiceService).ServeHTTP)
			r.Post("/invoices/{id}/send", send.New(logger, invoiceService).ServeHTTP)
		})

		// Оплата подписки: только JWT, без шлюза пробного периода
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/payments/intent", intentcreate.New(logger, subscriptionService).ServeHTTP)
			r.Post("/payments/confirm", confirm.New(logger, subscriptionService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
