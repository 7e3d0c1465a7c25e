// Package apperrors определяет ошибки бизнес-уровня.
//
// Сервисы возвращают эти ошибки (возможно, обёрнутыми через %w),
// а HTTP-обработчики выбирают код ответа через errors.Is —
// по виду ошибки, а не по тексту сообщения.
package apperrors

import "errors"

var (
	// ErrValidation — некорректная форма входных данных.
	ErrValidation = errors.New("validation failed")
	// ErrUserExists — пользователь с таким email уже зарегистрирован.
	ErrUserExists = errors.New("user already exists")
	// ErrMobileUsed — номер телефона уже использован для пробного периода.
	ErrMobileUsed = errors.New("mobile number already used for a trial")
	// ErrInvalidCredentials — неизвестный пользователь или неверный пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound — учётная запись не найдена по токену.
	ErrUserNotFound = errors.New("user not found")
	// ErrTrialExpired — пробный период истёк, а подписка не оформлена.
	ErrTrialExpired = errors.New("trial expired")
	// ErrInvoiceNotFound — счёт с таким id у данного владельца отсутствует.
	// Чужой счёт неотличим от несуществующего, чтобы не раскрывать его наличие.
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrAlreadySubscribed — подписка уже оформлена, новый платёж не нужен.
	ErrAlreadySubscribed = errors.New("already subscribed")
	// ErrPaymentNotCompleted — платёж не завершён, статус intent не "succeeded".
	ErrPaymentNotCompleted = errors.New("payment not completed")
	// ErrMissingRecipient — у счёта не указан email клиента.
	ErrMissingRecipient = errors.New("customer email is missing")
	// ErrDeliveryFailed — письмо со счётом отправить не удалось.
	ErrDeliveryFailed = errors.New("failed to send invoice email")
)
