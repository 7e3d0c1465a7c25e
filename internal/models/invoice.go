// Package models содержит доменные структуры счёта и его позиций,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Статусы счёта. Счёт создаётся в статусе draft и переходит в sent
// только через операцию отправки либо если статус sent запрошен при создании.
const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusSent  = "sent"
)

// Item представляет одну позицию счёта.
type Item struct {
	Description string  `json:"description"`               // Описание товара или услуги
	Quantity    float64 `json:"quantity" validate:"gte=0"` // Количество, неотрицательное
	UnitPrice   float64 `json:"price" validate:"gte=0"`    // Цена за единицу, неотрицательная
}

// Invoice представляет счёт, выставленный пользователем сервиса.
// Поле Total вычисляется один раз при создании и больше не пересчитывается,
// позиции после создания не изменяются.
type Invoice struct {
	ID            string    `json:"id"`            // Уникальный идентификатор счёта
	Owner         string    `json:"owner"`         // Email владельца — единственная привязка авторизации
	Customer      string    `json:"customer"`      // Имя клиента, которому выставлен счёт
	CustomerEmail string    `json:"customerEmail"` // Email клиента для отправки счёта
	Items         []Item    `json:"items"`         // Позиции счёта, минимум одна
	Notes         string    `json:"notes"`         // Примечания, опционально
	Total         float64   `json:"total"`         // Сумма по всем позициям: Σ quantity × price
	Date          time.Time `json:"date"`          // Дата создания, неизменяемая
	Status        string    `json:"status"`        // draft или sent
}

// CreateInvoiceRequest используется для приёма данных нового счёта из JSON-запроса.
type CreateInvoiceRequest struct {
	Customer      string `json:"customer" validate:"required"`
	CustomerEmail string `json:"customerEmail"`
	Items         []Item `json:"items" validate:"required,min=1,dive"`
	Notes         string `json:"notes"`
	Status        string `json:"status"`
}
