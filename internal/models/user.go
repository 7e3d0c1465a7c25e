// Package models содержит доменную модель пользователя системы,
// включающую учётные данные, дату начала пробного периода и флаг подписки.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	Email        string    // Электронная почта, уникальный идентификатор
	PasswordHash string    // Хэш пароля пользователя
	Mobile       string    // Номер телефона, уникален среди всех пользователей
	TrialStart   time.Time // Дата начала пробного периода, неизменяемая
	Subscribed   bool      // Оформлена ли платная подписка; меняется только с false на true
}

// RegisterRequest используется для приёма данных регистрации из JSON-запроса.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Mobile   string `json:"mobile" validate:"required"`
}

// LoginRequest используется для приёма данных авторизации из JSON-запроса.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
