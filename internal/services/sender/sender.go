// Package services содержит логику формирования и отправки счёта клиенту по почте.
package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/invoicing-saas/internal/apperrors"
	"github.com/magabrotheeeer/invoicing-saas/internal/lib/sl"
	"github.com/magabrotheeeer/invoicing-saas/internal/lib/smtp"
	"github.com/magabrotheeeer/invoicing-saas/internal/models"
)

// SenderService формирует письмо со счётом и отправляет его через SMTP транспорт.
//
// Если транспорт не настроен, сервис не считает это ошибкой: содержимое
// письма пишется в лог, а вызов завершается успешно (dev-режим). В этом
// случае счёт будет помечен отправленным, хотя письмо никуда не ушло.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendInvoice отправляет счёт на email клиента.
//
// Возвращает apperrors.ErrMissingRecipient, если email клиента не указан,
// и apperrors.ErrDeliveryFailed, если транспорт не смог доставить письмо.
func (s *SenderService) SendInvoice(invoice *models.Invoice) error {
	if invoice.CustomerEmail == "" {
		return apperrors.ErrMissingRecipient
	}

	subject := fmt.Sprintf("Invoice %s", invoice.ID)
	bodyText := formatBody(invoice)

	if !s.transport.Configured() {
		s.log.Warn("SMTP credentials not configured, email will not be sent")
		s.log.Info("invoice email contents",
			slog.String("to", invoice.CustomerEmail),
			slog.String("subject", subject),
			slog.String("text", bodyText))
		return nil
	}

	if err := s.sendEmail([]string{invoice.CustomerEmail}, subject, bodyText); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrDeliveryFailed, err)
	}
	return nil
}

// formatBody собирает текст письма: строка на каждую позицию счёта,
// итог с двумя знаками после запятой и примечания, если они есть.
func formatBody(invoice *models.Invoice) string {
	itemLines := make([]string, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		itemLines = append(itemLines, fmt.Sprintf("%v x %s @ £%v", item.Quantity, item.Description, item.UnitPrice))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", invoice.Customer)
	b.WriteString("Please find your invoice below:\n\n")
	b.WriteString(strings.Join(itemLines, "\n"))
	fmt.Fprintf(&b, "\n\nTotal: £%.2f\n\n", invoice.Total)
	if invoice.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n\n", invoice.Notes)
	}
	b.WriteString("Thank you for your business.")
	return b.String()
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.From(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.From()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.From()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
